package pipeline

// Buffers holds the W x H working planes described in spec.md §3. All
// are allocated at pipeline start; none are shared across pipeline
// instances.
type Buffers struct {
	Width, Height int

	Dark   []uint32 // dark exposure, native where row-class matches
	Bright []uint32 // bright exposure, darkened by matcher

	Fullres []uint32 // native-preferred reconstruction
	Halfres []uint32 // tone-mixed reconstruction

	AliasMap    []uint32 // 0..ALIAS_MAP_MAX confidence
	Overexposed []uint32 // 0..100 clip map, later blurred

	FullresSmoothed []uint32 // chroma-smoothed copy of Fullres
	HalfresSmoothed []uint32 // chroma-smoothed copy of Halfres
}

// NewBuffers allocates a full set of working planes for a W x H mosaic.
func NewBuffers(w, h int) *Buffers {
	n := w * h
	return &Buffers{
		Width:           w,
		Height:          h,
		Dark:            make([]uint32, n),
		Bright:          make([]uint32, n),
		Fullres:         make([]uint32, n),
		Halfres:         make([]uint32, n),
		AliasMap:        make([]uint32, n),
		Overexposed:     make([]uint32, n),
		FullresSmoothed: make([]uint32, n),
		HalfresSmoothed: make([]uint32, n),
	}
}
