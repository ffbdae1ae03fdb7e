package container

import "github.com/terse-codec/terse/workerpool"

// slot is a frame's tagged-variant storage (§4.6/§9): either a finished
// payload or a pending encode handle that force resolves on first read.
// There are no back-references from the pending handle to the Container
// that created it.
type slot struct {
	payload []byte
	future  *workerpool.Future[[]byte]
}

// force resolves the slot to its payload, blocking on the pending handle
// (if any) exactly once; subsequent calls return the cached payload.
func (s *slot) force() ([]byte, error) {
	if s.future == nil {
		return s.payload, nil
	}

	payload, err := s.future.Get()
	if err != nil {
		return nil, err
	}

	s.payload = payload
	s.future = nil

	return s.payload, nil
}
