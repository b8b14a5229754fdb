package cas

// Mtime implements tdb.MtimeFunc, consulting the ledger before the
// coordinator falls back to a real filesystem stat. This lets a rule
// author substitute a durable record for whatever the filesystem reports
// — useful on filesystems with coarse mtime resolution, or for targets
// that live outside the local filesystem entirely.
func (s *Store) Mtime(name string) (mtime float64, ok bool, err error) {
	v, found := s.Get(name)
	return v, found, nil
}
