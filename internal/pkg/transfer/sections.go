package transfer

// EndOfSession is the file size that announces there are no more files.
const EndOfSession int32 = -1

// Section is one chunk of a file, sent as a single segment.
type Section struct {
	Offset int
	Length int
}

// Sections splits a file of fileSize bytes into sections of sectionSize bytes.
// The offset advances by sectionSize and the last section is clamped to what remains,
// so an empty file has no sections at all.
func Sections(fileSize, sectionSize int) ([]Section, error) {
	var out []Section
	err := forEachSection(fileSize, sectionSize, func(s Section) error {
		out = append(out, s)
		return nil
	})
	return out, err
}

func forEachSection(fileSize, sectionSize int, fn func(Section) error) error {
	if fileSize > 0 && sectionSize <= 0 {
		return ErrInvalidSectionSize
	}
	for offset := 0; offset < fileSize; offset += sectionSize {
		length := sectionSize
		if offset+sectionSize > fileSize {
			length = fileSize - offset
		}
		if err := fn(Section{Offset: offset, Length: length}); err != nil {
			return err
		}
	}
	return nil
}
