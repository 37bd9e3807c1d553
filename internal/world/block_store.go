package world

import (
	"fmt"

	"github.com/sasha-s/go-deadlock"
)

const (
	ChunkMinY          = -64
	ChunkMaxY          = 319
	ChunkSectionCount  = 24
	ChunkSectionHeight = 16
	BlocksPerSection   = 16 * 16 * 16
)

type BlockKind int32

const (
	BlockAir BlockKind = iota
	BlockStone
	BlockWall
	BlockGlass
)

type BlockDefinition struct {
	Name  string `yaml:"name"`
	Solid bool   `yaml:"solid"`
}

// DefaultPalette is indexed by BlockKind.
func DefaultPalette() []BlockDefinition {
	return []BlockDefinition{
		BlockAir:   {Name: "air"},
		BlockStone: {Name: "stone", Solid: true},
		BlockWall:  {Name: "wall", Solid: true},
		BlockGlass: {Name: "glass", Solid: true},
	}
}

type ChunkPos struct {
	X int32
	Z int32
}

// ChunkSection keeps Blocks nil until the first non-air block is written.
type ChunkSection struct {
	Blocks []BlockKind
}

type Chunk struct {
	Sections []ChunkSection
}

type BlockStore struct {
	mu      deadlock.RWMutex
	chunks  map[ChunkPos]*Chunk
	palette []BlockDefinition
}

func NewBlockStore() *BlockStore {
	bs, _ := NewBlockStoreWithPalette(DefaultPalette())
	return bs
}

func NewBlockStoreWithPalette(palette []BlockDefinition) (*BlockStore, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("block palette is empty")
	}
	if palette[BlockAir].Solid {
		return nil, fmt.Errorf("block palette: kind 0 must be non-solid")
	}
	seen := make(map[string]struct{}, len(palette))
	for i, def := range palette {
		if def.Name == "" {
			return nil, fmt.Errorf("block palette: kind %d has no name", i)
		}
		if _, dup := seen[def.Name]; dup {
			return nil, fmt.Errorf("block palette: duplicate name %q", def.Name)
		}
		seen[def.Name] = struct{}{}
	}
	return &BlockStore{
		chunks:  make(map[ChunkPos]*Chunk),
		palette: append([]BlockDefinition(nil), palette...),
	}, nil
}

// KindByName resolves a palette name to its kind.
func (bs *BlockStore) KindByName(name string) (BlockKind, bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	for i, def := range bs.palette {
		if def.Name == name {
			return BlockKind(i), true
		}
	}
	return 0, false
}

func (bs *BlockStore) BlockName(kind BlockKind) (string, bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	if kind < 0 || int(kind) >= len(bs.palette) {
		return "", false
	}
	return bs.palette[kind].Name, true
}

// SetBlock writes a block, creating the chunk on demand. Writes outside the
// vertical range or with an unknown kind are rejected.
func (bs *BlockStore) SetBlock(x, y, z int, kind BlockKind) bool {
	pos, sectionIndex, blockIndex, ok := locate(x, y, z)
	if !ok {
		return false
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()

	if kind < 0 || int(kind) >= len(bs.palette) {
		return false
	}
	if bs.chunks == nil {
		bs.chunks = make(map[ChunkPos]*Chunk)
	}
	chunk, ok := bs.chunks[pos]
	if !ok {
		if kind == BlockAir {
			return true
		}
		chunk = &Chunk{Sections: make([]ChunkSection, ChunkSectionCount)}
		bs.chunks[pos] = chunk
	}
	section := &chunk.Sections[sectionIndex]
	if section.Blocks == nil {
		if kind == BlockAir {
			return true
		}
		section.Blocks = make([]BlockKind, BlocksPerSection)
	}
	section.Blocks[blockIndex] = kind
	return true
}

// Fill writes kind into every cell of the inclusive box and returns how many
// cells were written.
func (bs *BlockStore) Fill(min, max [3]int, kind BlockKind) int {
	for i := 0; i < 3; i++ {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}
	written := 0
	for x := min[0]; x <= max[0]; x++ {
		for y := min[1]; y <= max[1]; y++ {
			for z := min[2]; z <= max[2]; z++ {
				if bs.SetBlock(x, y, z, kind) {
					written++
				}
			}
		}
	}
	return written
}

func (bs *BlockStore) GetBlock(x, y, z int) (BlockKind, bool) {
	pos, sectionIndex, blockIndex, ok := locate(x, y, z)
	if !ok {
		return BlockAir, false
	}

	bs.mu.RLock()
	defer bs.mu.RUnlock()

	chunk, ok := bs.chunks[pos]
	if !ok {
		return BlockAir, false
	}
	section := chunk.Sections[sectionIndex]
	if section.Blocks == nil {
		return BlockAir, true
	}
	return section.Blocks[blockIndex], true
}

func (bs *BlockStore) IsSolid(x, y, z int) bool {
	kind, ok := bs.GetBlock(x, y, z)
	if !ok || kind == BlockAir {
		return false
	}

	bs.mu.RLock()
	defer bs.mu.RUnlock()
	if int(kind) >= len(bs.palette) {
		return false
	}
	return bs.palette[kind].Solid
}

func (bs *BlockStore) UnloadChunk(chunkX, chunkZ int32) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	delete(bs.chunks, ChunkPos{X: chunkX, Z: chunkZ})
}

func (bs *BlockStore) Clear() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.chunks = make(map[ChunkPos]*Chunk)
}

func (bs *BlockStore) IsLoaded(chunkX, chunkZ int32) bool {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	_, ok := bs.chunks[ChunkPos{X: chunkX, Z: chunkZ}]
	return ok
}

func (bs *BlockStore) LoadedChunkCount() int {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return len(bs.chunks)
}

func locate(x, y, z int) (ChunkPos, int, int, bool) {
	if y < ChunkMinY || y > ChunkMaxY {
		return ChunkPos{}, 0, 0, false
	}
	localX := floorMod16(x)
	localZ := floorMod16(z)
	sectionIndex := (y - ChunkMinY) / ChunkSectionHeight
	localY := (y - ChunkMinY) % ChunkSectionHeight
	blockIndex := localY*16*16 + localZ*16 + localX
	pos := ChunkPos{X: int32(floorDiv16(x)), Z: int32(floorDiv16(z))}
	return pos, sectionIndex, blockIndex, true
}

func floorDiv16(v int) int {
	q := v / 16
	if v < 0 && v%16 != 0 {
		q--
	}
	return q
}

func floorMod16(v int) int {
	m := v % 16
	if m < 0 {
		m += 16
	}
	return m
}
