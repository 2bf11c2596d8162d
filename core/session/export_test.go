package session

import "time"

func (s *Store) SetNowFunc(f func() time.Time) { s.nowFunc = f }
