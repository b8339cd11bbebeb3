package util

type Mask interface {
	~int64 | ~uint32 | ~uint16
}

func GenMask[T Mask](items ...T) T {
	var v T
	for _, val := range items {
		v |= val
	}
	return v
}

func TestMask[T Mask](item, mask T) bool {
	return item&mask != 0
}
