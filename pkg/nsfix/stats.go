package nsfix

import "fmt"

// Stats summarizes one transcoding run
type Stats struct {
	TotalParts int
	XMLParts   int
	XMLFixed   int
	XMLFailed  int
	// Failures lists the XML entries kept unchanged, in entry order.
	Failures []PartFailure
}

// Add folds one entry result into the statistics
func (s *Stats) Add(r EntryResult) {
	s.TotalParts++
	switch r.Kind {
	case Reserialized:
		s.XMLParts++
		if r.Changed {
			s.XMLFixed++
		}
	case KeptOriginal:
		s.XMLParts++
		s.XMLFailed++
		s.Failures = append(s.Failures, PartFailure{Name: r.Name, Err: r.Reason})
	}
}

// XMLUnchanged is the number of XML entries whose canonical form equaled the input
func (s *Stats) XMLUnchanged() int {
	return s.XMLParts - s.XMLFixed - s.XMLFailed
}

// Validate checks the counting invariants of the record
func (s *Stats) Validate() error {
	switch {
	case s.XMLParts > s.TotalParts:
		return fmt.Errorf("xml parts %d exceed total parts %d", s.XMLParts, s.TotalParts)
	case s.XMLUnchanged() < 0:
		return fmt.Errorf("fixed %d + failed %d exceed xml parts %d", s.XMLFixed, s.XMLFailed, s.XMLParts)
	case len(s.Failures) != s.XMLFailed:
		return fmt.Errorf("%d failures recorded for %d failed parts", len(s.Failures), s.XMLFailed)
	}
	return nil
}

func (s *Stats) String() string {
	return fmt.Sprintf("parts=%d xml=%d fixed=%d failed=%d", s.TotalParts, s.XMLParts, s.XMLFixed, s.XMLFailed)
}
