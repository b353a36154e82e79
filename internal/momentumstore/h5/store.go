// Package h5 reads the momentum store through libhdf5. It is the only package
// that needs cgo; everything else works against momentumstore.Reader.
package h5

import (
	"path/filepath"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/hdf5"

	"github.com/tensorplex-labs/momentum/internal/momentumstore"
)

// Store is a read-only handle on the momentum file. libhdf5 is not built
// thread-safe, so every call goes through mu.
type Store struct {
	mu     sync.Mutex
	file   *hdf5.File
	path   string
	groups map[string]struct{}
	ids    []string
}

var _ momentumstore.Reader = (*Store)(nil)

// Open opens path read-only and indexes its match groups.
func Open(path string) (*Store, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, errors.Wrapf(err, "open momentum store %s", path)
	}

	n, err := f.NumObjects()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "list groups of %s", path)
	}

	s := &Store{file: f, path: path, groups: make(map[string]struct{}, n)}
	for i := uint(0); i < n; i++ {
		name, err := f.ObjectNameByIndex(i)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "read group name %d of %s", i, path)
		}
		s.groups[name] = struct{}{}
		s.ids = append(s.ids, name)
	}
	slices.Sort(s.ids)

	log.Info().Str("path", path).Int("matches", len(s.ids)).Msg("momentum store opened")
	return s, nil
}

// OpenReader is Open typed for viewer.WithStoreOpener.
func OpenReader(path string) (momentumstore.Reader, error) {
	return Open(path)
}

func (s *Store) Path() string { return s.path }

func (s *Store) Has(matchID string) bool {
	_, ok := s.groups[matchID]
	return ok
}

// MatchIDs returns the sorted group names.
func (s *Store) MatchIDs() []string {
	return slices.Clone(s.ids)
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// Read decodes one match group.
func (s *Store) Read(matchID string) (*momentumstore.RawMatch, error) {
	if !s.Has(matchID) {
		return nil, errors.Wrapf(momentumstore.ErrMatchNotFound, "match id %s not found in %s", matchID, filepath.Base(s.path))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil, errors.New("momentum store is closed")
	}

	g, err := s.file.OpenGroup(matchID)
	if err != nil {
		return nil, errors.Wrapf(err, "open group %s", matchID)
	}
	defer g.Close()

	m := &momentumstore.RawMatch{MatchID: matchID}
	floatsInto := []struct {
		name string
		dst  *[]float64
	}{
		{momentumstore.DatasetMinutes, &m.Minutes},
		{momentumstore.DatasetDiff, &m.Diff},
		{momentumstore.DatasetGoalsMinutes, &m.GoalsMinutes},
		{momentumstore.DatasetShotsMinutes, &m.ShotsMinutes},
	}
	for _, d := range floatsInto {
		if *d.dst, err = readFloats(g, d.name); err != nil {
			return nil, errors.Wrapf(err, "match %s", matchID)
		}
	}

	if m.GoalsTeam, err = readStrings(g, momentumstore.DatasetGoalsTeam); err != nil {
		return nil, errors.Wrapf(err, "match %s", matchID)
	}
	if m.ShotsTeam, err = readStrings(g, momentumstore.DatasetShotsTeam); err != nil {
		return nil, errors.Wrapf(err, "match %s", matchID)
	}

	d, err := openDataset(g, momentumstore.DatasetShotsOnTarget)
	if err != nil {
		return nil, errors.Wrapf(err, "match %s", matchID)
	}
	defer d.close()
	if d.kind == momentumstore.KindString {
		return nil, errors.Wrapf(momentumstore.ErrUnsupportedEncoding, "match %s: %s holds strings", matchID, d.name)
	}
	raw, err := d.readRaw()
	if err != nil {
		return nil, errors.Wrapf(err, "match %s", matchID)
	}
	if m.ShotsOnTarget, err = momentumstore.DecodeInts(raw, d.kind, d.size); err != nil {
		return nil, errors.Wrapf(err, "match %s: %s", matchID, d.name)
	}

	m.TeamA = readStringAttr(g, momentumstore.AttrTeamA)
	m.TeamB = readStringAttr(g, momentumstore.AttrTeamB)

	if err := m.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("match_id", matchID).
		Int("minutes", len(m.Minutes)).
		Int("goals", len(m.GoalsMinutes)).
		Int("shots", len(m.ShotsMinutes)).
		Msg("match group decoded")

	return m, nil
}

// dataset is an open dataset with its stored element type.
type dataset struct {
	name    string
	ds      *hdf5.Dataset
	kind    momentumstore.Kind
	size    int
	varStr  bool
	npoints int
}

func openDataset(g *hdf5.Group, name string) (*dataset, error) {
	ds, err := g.OpenDataset(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", name)
	}

	dtype, err := ds.Datatype()
	if err != nil {
		ds.Close()
		return nil, errors.Wrapf(err, "datatype of %s", name)
	}
	defer dtype.Close()

	d := &dataset{name: name, ds: ds, size: int(dtype.Size())}
	switch dtype.Class() {
	case hdf5.T_FLOAT:
		d.kind = momentumstore.KindFloat
	case hdf5.T_INTEGER, hdf5.T_ENUM:
		d.kind = momentumstore.KindInt
	case hdf5.T_STRING:
		d.kind = momentumstore.KindString
		d.varStr = dtype.IsVariableStr()
	default:
		ds.Close()
		return nil, errors.Wrapf(momentumstore.ErrUnsupportedEncoding, "dataset %s has type class %d", name, dtype.Class())
	}

	space := ds.Space()
	d.npoints = space.SimpleExtentNPoints()
	space.Close()

	return d, nil
}

func (d *dataset) close() { d.ds.Close() }

// readRaw reads the whole dataset in its stored element type.
func (d *dataset) readRaw() ([]byte, error) {
	raw := make([]byte, d.npoints*d.size)
	if len(raw) == 0 {
		return raw, nil
	}
	if err := d.ds.Read(&raw); err != nil {
		return nil, errors.Wrapf(err, "read dataset %s", d.name)
	}
	return raw, nil
}

func readFloats(g *hdf5.Group, name string) ([]float64, error) {
	d, err := openDataset(g, name)
	if err != nil {
		return nil, err
	}
	defer d.close()

	if d.kind == momentumstore.KindString {
		return nil, errors.Wrapf(momentumstore.ErrUnsupportedEncoding, "dataset %s holds strings", name)
	}
	raw, err := d.readRaw()
	if err != nil {
		return nil, err
	}
	values, err := momentumstore.DecodeNumeric(raw, d.kind, d.size)
	return values, errors.Wrapf(err, "decode %s", name)
}

// readStrings accepts fixed-width and variable-length string datasets.
func readStrings(g *hdf5.Group, name string) ([]string, error) {
	d, err := openDataset(g, name)
	if err != nil {
		return nil, err
	}
	defer d.close()

	if d.kind != momentumstore.KindString {
		return nil, errors.Wrapf(momentumstore.ErrUnsupportedEncoding, "dataset %s holds %s values", name, d.kind)
	}

	if d.varStr {
		values, err := readVarStrings(d.ds, d.npoints)
		if err != nil {
			return nil, errors.Wrapf(err, "read dataset %s", name)
		}
		values, err = momentumstore.CleanStrings(values)
		return values, errors.Wrapf(err, "decode %s", name)
	}

	raw, err := d.readRaw()
	if err != nil {
		return nil, err
	}
	values, err := momentumstore.DecodeFixedStrings(raw, d.size)
	return values, errors.Wrapf(err, "decode %s", name)
}

// readStringAttr returns "" when the attribute is absent or unreadable; the
// raw team names are only a fallback for the match table.
func readStringAttr(g *hdf5.Group, name string) string {
	attr, err := g.OpenAttribute(name)
	if err != nil {
		log.Debug().Err(err).Str("attribute", name).Msg("attribute not readable")
		return ""
	}
	defer attr.Close()

	var value string
	if err := attr.Read(&value, hdf5.T_GO_STRING); err != nil {
		log.Debug().Err(err).Str("attribute", name).Msg("attribute not readable")
		return ""
	}
	return value
}
