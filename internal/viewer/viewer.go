// Package viewer owns the memoized datasets and turns user selections into
// chart-ready match data.
package viewer

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tensorplex-labs/momentum/internal/config"
	"github.com/tensorplex-labs/momentum/internal/matchtable"
	"github.com/tensorplex-labs/momentum/internal/momentumstore"
	"github.com/tensorplex-labs/momentum/internal/smoothing"
)

type (
	TableOpener func(path string) (*matchtable.Table, error)
	StoreOpener func(path string) (momentumstore.Reader, error)
)

// Viewer serves selections and match data from one generation of datasets at
// a time. Load memoizes the first generation; Reload swaps in a new one.
type Viewer struct {
	dataCfg  config.DataEnvConfig
	chartCfg config.ChartEnvConfig

	openTable TableOpener
	openStore StoreOpener

	loadMu sync.Mutex // serializes Load and Reload
	mu     sync.RWMutex
	data   *Datasets
}

type Option func(*Viewer)

func WithTableOpener(open TableOpener) Option {
	return func(v *Viewer) {
		v.openTable = open
	}
}

func WithStoreOpener(open StoreOpener) Option {
	return func(v *Viewer) {
		v.openStore = open
	}
}

func New(dataCfg config.DataEnvConfig, chartCfg config.ChartEnvConfig, opts ...Option) *Viewer {
	v := &Viewer{
		dataCfg:   dataCfg,
		chartCfg:  chartCfg,
		openTable: matchtable.Load,
		openStore: func(path string) (momentumstore.Reader, error) {
			return nil, errors.Wrapf(momentumstore.ErrNoReader, "open %s", path)
		},
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Load opens both datasets once. Later calls are no-ops.
func (v *Viewer) Load(ctx context.Context) error {
	v.loadMu.Lock()
	defer v.loadMu.Unlock()

	v.mu.RLock()
	loaded := v.data != nil
	v.mu.RUnlock()
	if loaded {
		return nil
	}

	data, err := v.open(ctx, 1)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.data = data
	v.mu.Unlock()
	return nil
}

// Reload reopens both files and swaps them in. The previous store is closed
// once no reader holds it.
func (v *Viewer) Reload(ctx context.Context) error {
	v.loadMu.Lock()
	defer v.loadMu.Unlock()

	v.mu.RLock()
	var next uint64 = 1
	if v.data != nil {
		next = v.data.Version + 1
	}
	v.mu.RUnlock()

	data, err := v.open(ctx, next)
	if err != nil {
		return err
	}

	v.mu.Lock()
	old := v.data
	v.data = data
	v.mu.Unlock()

	if old != nil && old.Store != nil {
		if err := old.Store.Close(); err != nil {
			log.Warn().Err(err).Uint64("version", old.Version).Msg("failed to close previous momentum store")
		}
	}

	log.Info().Uint64("version", data.Version).Msg("datasets reloaded")
	return nil
}

func (v *Viewer) open(ctx context.Context, version uint64) (*Datasets, error) {
	start := time.Now()
	data := &Datasets{Version: version}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		table, err := v.openTable(v.dataCfg.MatchesPath)
		if err != nil {
			return err
		}
		data.Table = table
		return nil
	})
	g.Go(func() error {
		store, err := v.openStore(v.dataCfg.MomentumPath)
		if err != nil {
			return err
		}
		data.Store = store
		return nil
	})

	if err := g.Wait(); err != nil {
		if data.Store != nil {
			_ = data.Store.Close()
		}
		return nil, errors.Wrap(err, "load datasets")
	}

	data.LoadedAt = time.Now()
	log.Info().
		Uint64("version", version).
		Int("table_rows", data.Table.Len()).
		Int("store_matches", len(data.Store.MatchIDs())).
		Dur("took", time.Since(start)).
		Msg("datasets loaded")

	return data, nil
}

// Close releases the current store.
func (v *Viewer) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.data == nil || v.data.Store == nil {
		return nil
	}
	err := v.data.Store.Close()
	v.data = nil
	return err
}

func (v *Viewer) current() (*Datasets, error) {
	if v.data == nil {
		return nil, ErrNotLoaded
	}
	return v.data, nil
}

// Version is the current dataset generation, 0 before Load.
func (v *Viewer) Version() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.data == nil {
		return 0
	}
	return v.data.Version
}

// Stats summarises the loaded datasets.
func (v *Viewer) Stats() (Stats, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	data, err := v.current()
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Version:      data.Version,
		LoadedAt:     data.LoadedAt,
		TableRows:    data.Table.Len(),
		HasLeague:    data.Table.HasLeague(),
		StoreMatches: len(data.Store.MatchIDs()),
	}, nil
}

type Stats struct {
	Version      uint64    `json:"version"`
	LoadedAt     time.Time `json:"loaded_at"`
	TableRows    int       `json:"table_rows"`
	HasLeague    bool      `json:"has_league"`
	StoreMatches int       `json:"store_matches"`
}

// SigmaBounds returns the slider range and default.
func (v *Viewer) SigmaBounds() (minSigma, maxSigma, defSigma int) {
	return v.chartCfg.SigmaMin, v.chartCfg.SigmaMax, v.chartCfg.SigmaDefault
}

// ValidateSigma rejects values outside the slider range.
func (v *Viewer) ValidateSigma(sigma int) error {
	if sigma < v.chartCfg.SigmaMin || sigma > v.chartCfg.SigmaMax {
		return errors.Wrapf(ErrInvalidSigma, "sigma %d outside [%d, %d]", sigma, v.chartCfg.SigmaMin, v.chartCfg.SigmaMax)
	}
	return nil
}

// Leagues returns the sorted leagues and whether the table has a league column.
func (v *Viewer) Leagues() ([]string, bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	data, err := v.current()
	if err != nil {
		return nil, false, err
	}
	return data.Table.Leagues(), data.Table.HasLeague(), nil
}

// Teams returns the teams of a league (all teams without a league column).
func (v *Viewer) Teams(league string) ([]string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	data, err := v.current()
	if err != nil {
		return nil, err
	}
	return data.Table.Filter(league).Teams(), nil
}

// Matches returns the "<home> vs <away>" options of a team within a league.
func (v *Viewer) Matches(league, team string) ([]matchtable.MatchOption, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	data, err := v.current()
	if err != nil {
		return nil, err
	}
	return data.Table.Filter(league).MatchOptions(team), nil
}

// Resolve completes a selection with cascading defaults. It returns
// ErrNoMatches together with a partially filled Resolved when the chosen team
// has no selectable match.
func (v *Viewer) Resolve(sel Selection) (*Resolved, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	data, err := v.current()
	if err != nil {
		return nil, err
	}

	res := &Resolved{
		HasLeague: data.Table.HasLeague(),
		SigmaMin:  v.chartCfg.SigmaMin,
		SigmaMax:  v.chartCfg.SigmaMax,
		Sigma:     v.clampSigma(sel.Sigma),
	}

	table := data.Table
	if res.HasLeague {
		res.Leagues = table.Leagues()
		res.League = pick(res.Leagues, sel.League)
		table = table.Filter(res.League)
	} else {
		res.Notice = NoLeagueNotice
	}

	res.Teams = table.Teams()
	res.Team = pick(res.Teams, sel.Team)

	res.Options = table.MatchOptions(res.Team)
	if len(res.Options) == 0 {
		return res, ErrNoMatches
	}

	labels := make([]string, len(res.Options))
	for i, o := range res.Options {
		labels[i] = o.Label
	}
	res.MatchLabel = pick(labels, sel.Match)
	res.MatchID, _ = matchtable.ResolveLabel(res.Options, res.MatchLabel)

	return res, nil
}

func (v *Viewer) clampSigma(sigma int) int {
	switch {
	case sigma == 0:
		return v.chartCfg.SigmaDefault
	case sigma < v.chartCfg.SigmaMin:
		return v.chartCfg.SigmaMin
	case sigma > v.chartCfg.SigmaMax:
		return v.chartCfg.SigmaMax
	}
	return sigma
}

func pick(options []string, want string) string {
	if slices.Contains(options, want) {
		return want
	}
	if len(options) == 0 {
		return ""
	}
	return options[0]
}

// LoadMatch reads a match from the store, smooths its difference series with
// sigma and labels its teams as home and away. When the match table has no
// h/a rows for the match the raw store attributes are used.
func (v *Viewer) LoadMatch(matchID int64, sigma int) (*MatchData, error) {
	if err := v.ValidateSigma(sigma); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	data, err := v.current()
	if err != nil {
		return nil, err
	}

	raw, err := data.Store.Read(strconv.FormatInt(matchID, 10))
	if err != nil {
		return nil, err
	}

	home, away, ok := data.Table.HomeAwayRoles(matchID)
	if !ok {
		log.Debug().Int64("match_id", matchID).Msg("home/away roles not in match table, using store attributes")
		home, away = raw.TeamA, raw.TeamB
	}

	md := &MatchData{
		MatchID:    matchID,
		Minutes:    raw.Minutes,
		DiffSmooth: smoothing.GaussianFilter1D(raw.Diff, float64(sigma)),
		Home:       home,
		Away:       away,
		Sigma:      sigma,
		Version:    data.Version,
		Goals:      make([]Event, len(raw.GoalsMinutes)),
		Shots:      make([]Shot, len(raw.ShotsMinutes)),
	}
	for i, m := range raw.GoalsMinutes {
		md.Goals[i] = Event{Minute: m, Team: raw.GoalsTeam[i]}
	}
	for i, m := range raw.ShotsMinutes {
		md.Shots[i] = Shot{Minute: m, Team: raw.ShotsTeam[i], OnTarget: raw.ShotsOnTarget[i] == 1}
	}

	log.Debug().
		Int64("match_id", matchID).
		Int("sigma", sigma).
		Str("home", home).
		Str("away", away).
		Msg("match loaded")

	return md, nil
}
