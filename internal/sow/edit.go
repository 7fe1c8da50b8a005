package sow

import "fmt"

// SectionIndex returns the position of the section in r.Sections, or -1.
func SectionIndex(r *Record, sectionID string) int {
	for i, s := range r.Sections {
		if s.ID == sectionID {
			return i
		}
	}
	return -1
}

// MoveSection moves a section to newIndex (0-based, clamped to the valid
// range) and renumbers positions.
func MoveSection(r *Record, sectionID string, newIndex int) error {
	if err := CanEdit(r); err != nil {
		return err
	}
	idx := SectionIndex(r, sectionID)
	if idx < 0 {
		return fmt.Errorf("section %q not found in SOW %q", sectionID, r.ID)
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(r.Sections)-1 {
		newIndex = len(r.Sections) - 1
	}

	s := r.Sections[idx]
	rest := append(append([]Section{}, r.Sections[:idx]...), r.Sections[idx+1:]...)
	moved := make([]Section, 0, len(r.Sections))
	moved = append(moved, rest[:newIndex]...)
	moved = append(moved, s)
	moved = append(moved, rest[newIndex:]...)

	r.Sections = moved
	renumber(r)
	r.UpdatedAt = timeNow().UTC().Format(timeLayout)
	return nil
}

// RemoveSection drops a section and renumbers the rest. Callers follow up
// with Resummarize. The last section cannot be removed; archive the SOW
// instead.
func RemoveSection(r *Record, sectionID string) error {
	if err := CanEdit(r); err != nil {
		return err
	}
	idx := SectionIndex(r, sectionID)
	if idx < 0 {
		return fmt.Errorf("section %q not found in SOW %q", sectionID, r.ID)
	}
	if len(r.Sections) == 1 {
		return fmt.Errorf("cannot remove the only section of SOW %q", r.ID)
	}

	r.Sections = append(append([]Section{}, r.Sections[:idx]...), r.Sections[idx+1:]...)
	renumber(r)
	r.UpdatedAt = timeNow().UTC().Format(timeLayout)
	return nil
}

func renumber(r *Record) {
	for i := range r.Sections {
		r.Sections[i].Position = i + 1
	}
}
