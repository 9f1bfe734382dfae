package block

// Map is the persistent PC->Block index (spec: distinct from the bounded
// hot cache). It is unbounded by default; set MaxBlocks to start evicting
// the least-recently-built block once the map would otherwise grow
// forever on a program that keeps visiting new addresses (e.g. self-
// modifying or JIT'd guest code).
type Map struct {
	blocks map[uint32]*Block
	order  []uint32 // insertion order, for the optional eviction policy

	MaxBlocks int // 0 means unbounded

	// Generation increments whenever a block leaves the map, through
	// Invalidate or through MaxBlocks eviction. Instruction.LinkGen
	// records the generation a resolved successor pointer was computed
	// at; the interpreter treats a mismatch as "re-resolve before trust".
	Generation uint64
}

// NewMap returns an empty, unbounded block map.
func NewMap() *Map {
	return &Map{blocks: make(map[uint32]*Block)}
}

// Find returns the block starting at pc, or nil.
func (m *Map) Find(pc uint32) *Block {
	return m.blocks[pc]
}

// Insert adds b, keyed by b.PC, evicting the oldest entry first if
// MaxBlocks is set and already reached.
func (m *Map) Insert(b *Block) {
	if _, exists := m.blocks[b.PC]; exists {
		return
	}
	if m.MaxBlocks > 0 && len(m.blocks) >= m.MaxBlocks {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.blocks, oldest)
		m.Generation++
	}
	m.blocks[b.PC] = b
	m.order = append(m.order, b.PC)
}

// Invalidate drops the block at pc, if any, and bumps Generation so any
// Instruction holding a resolved successor pointer into it knows to
// re-resolve before trusting it again.
func (m *Map) Invalidate(pc uint32) {
	if _, ok := m.blocks[pc]; !ok {
		return
	}
	delete(m.blocks, pc)
	m.Generation++
}

// Len reports the number of resident blocks.
func (m *Map) Len() int { return len(m.blocks) }
