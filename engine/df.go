package engine

// DfResult reports the superblock's four free/total counts and their
// derived "used" complements.
type DfResult struct {
	TotalBlocks uint32
	FreeBlocks  uint32
	UsedBlocks  uint32
	TotalInodes uint32
	FreeInodes  uint32
	UsedInodes  uint32
}

// Df reports filesystem-wide usage.
func Df(imagePath string) (DfResult, error) {
	var result DfResult
	err := withImage(imagePath, func(s *session) error {
		result = DfResult{
			TotalBlocks: s.sb.TotalBlockCount,
			FreeBlocks:  s.sb.FreeBlockCount,
			UsedBlocks:  s.sb.TotalBlockCount - s.sb.FreeBlockCount,
			TotalInodes: s.sb.TotalInodeCount,
			FreeInodes:  s.sb.FreeInodeCount,
			UsedInodes:  s.sb.TotalInodeCount - s.sb.FreeInodeCount,
		}
		return nil
	})
	return result, err
}
