// Package dispatch turns user actions into server calls and the server's
// answers into view commands and notices.
package dispatch

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/cfarm/internal/cooldown"
	"github.com/theirongolddev/cfarm/internal/farm"
	"github.com/theirongolddev/cfarm/internal/logging"
	"github.com/theirongolddev/cfarm/internal/model"
	"github.com/theirongolddev/cfarm/internal/view"
)

// User-facing texts.
const (
	MsgThanks         = "Thank you for your help!"
	MsgNetworkError   = "Network error, please try again"
	MsgSessionExpired = "Session expired, please log in again"
	MsgRateLimited    = "Too many requests, please slow down"
	MsgUpgraded       = "Upgrade purchased"
)

// API is the subset of the farm client the dispatcher needs.
type API interface {
	FetchStats(ctx context.Context) (model.UserStats, error)
	FetchProjects(ctx context.Context) ([]model.Project, error)
	Contribute(ctx context.Context, id model.ProjectID, amount float64) (model.ContributeResult, error)
	ContributeForm(ctx context.Context, id model.ProjectID, amount float64) (model.ContributeResult, error)
	Tap(ctx context.Context) (model.TapResult, error)
	CollectAFK(ctx context.Context) (model.AFKResult, error)
	PurchaseUpgrade(ctx context.Context, id string) (model.UpgradeResult, error)
}

// Journal records actions. A nil Journal disables recording.
type Journal interface {
	Record(rec model.ActionRecord) (model.ActionRecord, error)
}

// Result is everything an action produced for the page to apply.
type Result struct {
	Commands []view.Command
	Notices  []model.Notice

	Stats        *model.UserStats
	Projects     []model.Project
	Contribution *model.ContributeResult
	AFK          *model.AFKResult
	Upgrade      *model.UpgradeResult

	// Reward is set after a successful tap.
	Reward *float64
	// Reload asks the page to start over once the reload delay has passed.
	Reload bool
	// Err is the underlying failure, if any, for logging and exit codes.
	Err error
}

// Dispatcher issues the user-triggered calls.
type Dispatcher struct {
	api     API
	gate    *cooldown.Gate
	journal Journal
	log     logging.Logger
	now     func() time.Time

	mu sync.Mutex
	// last is the most recent full stats snapshot, used to complete tap
	// replies that leave out the totals.
	last *model.UserStats
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithGate sets the tap cooldown gate.
func WithGate(g *cooldown.Gate) Option {
	return func(d *Dispatcher) {
		if g != nil {
			d.gate = g
		}
	}
}

// WithJournal records every action in j.
func WithJournal(j Journal) Option {
	return func(d *Dispatcher) { d.journal = j }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// New returns a dispatcher over api.
func New(api API, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		api:  api,
		gate: cooldown.New(cooldown.DefaultSpacing, nil),
		log:  logging.Nop(),
		now:  time.Now,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Gate exposes the tap gate so the page can reflect its state.
func (d *Dispatcher) Gate() *cooldown.Gate { return d.gate }

// Contribute sends amount to a project from the amount-entry path.
func (d *Dispatcher) Contribute(ctx context.Context, id model.ProjectID, amount float64) Result {
	res, err := d.api.Contribute(ctx, id, amount)
	d.record(model.ActionRecord{Kind: model.ActionContribute, ProjectID: id, Amount: amount, OK: err == nil, Message: errText(err)})
	if err != nil {
		d.log.Warn().Err(err).Str("project", string(id)).Float64("amount", amount).Msg("contribution failed")
		return Result{Notices: []model.Notice{actionFailure(err)}, Err: err}
	}

	d.log.Info().Str("project", string(id)).Float64("amount", amount).Msg("contribution sent")
	return Result{
		Commands:     view.RenderContribution(id, res),
		Notices:      []model.Notice{{Message: MsgThanks, Kind: model.NoticeSuccess}},
		Contribution: &res,
	}
}

// ContributeConfirmed sends amount from the confirm-dialog path. The caller
// has already obtained the user's confirmation. Any answer other than an
// error asks for a reload.
func (d *Dispatcher) ContributeConfirmed(ctx context.Context, id model.ProjectID, amount float64) Result {
	res, err := d.api.ContributeForm(ctx, id, amount)
	d.record(model.ActionRecord{Kind: model.ActionContribute, ProjectID: id, Amount: amount, OK: err == nil, Message: errText(err)})
	if err != nil {
		d.log.Warn().Err(err).Str("project", string(id)).Float64("amount", amount).Msg("confirmed contribution failed")
		return Result{Notices: []model.Notice{actionFailure(err)}, Err: err}
	}

	d.log.Info().Str("project", string(id)).Float64("amount", amount).Msg("confirmed contribution sent")
	return Result{
		Notices: []model.Notice{{
			Message: MsgThanks + " You donated " + strconv.FormatFloat(amount, 'f', -1, 64),
			Kind:    model.NoticeSuccess,
		}},
		Contribution: &res,
		Reload:       true,
	}
}

// ConfirmPrompt is the question asked before a confirmed contribution.
func ConfirmPrompt(amount float64) string {
	return "Are you sure you want to help this project with " + strconv.FormatFloat(amount, 'f', -1, 64) + "?"
}

// TryTap asks the gate for permission to tap.
func (d *Dispatcher) TryTap() (cooldown.Token, bool) {
	return d.gate.Acquire()
}

// Tap performs an admitted tap and releases tok when the response is in,
// whatever its outcome. Transport failures are logged but produce no notice.
func (d *Dispatcher) Tap(ctx context.Context, tok cooldown.Token) Result {
	defer d.gate.Release(tok)

	res, err := d.api.Tap(ctx)
	d.record(model.ActionRecord{Kind: model.ActionTap, Reward: res.Reward, OK: err == nil, Message: errText(err)})
	if err != nil {
		var apiErr *farm.APIError
		if errors.As(err, &apiErr) {
			return Result{Notices: []model.Notice{{Message: apiErr.Message, Kind: model.NoticeError}}, Err: err}
		}
		d.log.Error().Err(err).Str("token", tok.String()).Msg("tap request failed")
		return Result{Err: err}
	}

	reward := res.Reward
	stats := res.UserStats
	d.log.Debug().Float64("reward", reward).Bool("totals", res.HasTotals).Msg("tap rewarded")
	if res.HasTotals {
		d.remember(stats)
		return Result{
			Commands: view.RenderStats(stats),
			Stats:    &stats,
			Reward:   &reward,
		}
	}

	// The totals on screen stay; badges are judged on the merged snapshot.
	if last := d.lastStats(); last != nil {
		stats.TotalHelp = last.TotalHelp
		stats.CompletedProjects = last.CompletedProjects
	}
	return Result{
		Commands: view.RenderTapStats(stats),
		Stats:    &stats,
		Reward:   &reward,
	}
}

// TapOnce acquires the gate and taps. ok is false if the gate was closed.
func (d *Dispatcher) TapOnce(ctx context.Context) (res Result, ok bool) {
	tok, ok := d.TryTap()
	if !ok {
		return Result{}, false
	}
	return d.Tap(ctx, tok), true
}

// RefreshStats fetches and renders the user's stats. Failures are logged only.
func (d *Dispatcher) RefreshStats(ctx context.Context) Result {
	st, err := d.api.FetchStats(ctx)
	if err != nil {
		d.log.Warn().Err(err).Msg("fetching stats failed")
		return Result{Err: err}
	}
	d.remember(st)
	return Result{Commands: view.RenderStats(st), Stats: &st}
}

// CollectAFK claims the passive earnings accrued since the last claim and
// shows the new balance. A server message, such as the hint to buy the AFK
// upgrade first, is shown as is.
func (d *Dispatcher) CollectAFK(ctx context.Context) Result {
	res, err := d.api.CollectAFK(ctx)
	d.record(model.ActionRecord{Kind: model.ActionAFK, Reward: res.Earnings, OK: err == nil, Message: errText(err)})
	if err != nil {
		d.log.Warn().Err(err).Msg("collecting afk earnings failed")
		return Result{Notices: []model.Notice{actionFailure(err)}, Err: err}
	}

	d.log.Info().Float64("earnings", res.Earnings).Msg("afk earnings collected")
	notice := model.Notice{Message: res.Message, Kind: model.NoticeInfo}
	if res.Message == "" {
		notice = model.Notice{Message: "Collected " + view.FormatAmount(res.Earnings) + " while away", Kind: model.NoticeSuccess}
	}
	return Result{
		Commands: view.RenderBalance(res.NewBalance),
		Notices:  []model.Notice{notice},
		AFK:      &res,
	}
}

// PurchaseUpgrade buys the next level of upgrade id and shows the new
// balance.
func (d *Dispatcher) PurchaseUpgrade(ctx context.Context, id string) Result {
	res, err := d.api.PurchaseUpgrade(ctx, id)
	d.record(model.ActionRecord{Kind: model.ActionUpgrade, ProjectID: model.ProjectID(id), OK: err == nil, Message: errText(err)})
	if err != nil {
		d.log.Warn().Err(err).Str("upgrade", id).Msg("upgrade purchase failed")
		return Result{Notices: []model.Notice{actionFailure(err)}, Err: err}
	}

	d.log.Info().Str("upgrade", id).Int("level", res.UpgradeLevel).Msg("upgrade purchased")
	msg := res.Message
	if msg == "" {
		msg = MsgUpgraded
	}
	return Result{
		Commands: view.RenderBalance(res.NewBalance),
		Notices:  []model.Notice{{Message: msg, Kind: model.NoticeSuccess}},
		Upgrade:  &res,
	}
}

// RefreshProjects fetches and renders the project list. Failures are logged
// only.
func (d *Dispatcher) RefreshProjects(ctx context.Context) Result {
	ps, err := d.api.FetchProjects(ctx)
	if err != nil {
		d.log.Warn().Err(err).Msg("fetching projects failed")
		return Result{Err: err}
	}
	return Result{Commands: view.RenderProjects(ps), Projects: ps}
}

// RefreshAll fetches stats and projects concurrently and independently; one
// failing does not affect the other. Err holds the first failure.
func (d *Dispatcher) RefreshAll(ctx context.Context) Result {
	var (
		g            errgroup.Group
		stats, projs Result
	)
	g.Go(func() error {
		stats = d.RefreshStats(ctx)
		return stats.Err
	})
	g.Go(func() error {
		projs = d.RefreshProjects(ctx)
		return projs.Err
	})
	err := g.Wait()

	out := Result{
		Stats:    stats.Stats,
		Projects: projs.Projects,
		Err:      err,
	}
	out.Commands = append(out.Commands, stats.Commands...)
	out.Commands = append(out.Commands, projs.Commands...)
	return out
}

func (d *Dispatcher) remember(st model.UserStats) {
	d.mu.Lock()
	d.last = &st
	d.mu.Unlock()
}

func (d *Dispatcher) lastStats() *model.UserStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

func (d *Dispatcher) record(rec model.ActionRecord) {
	if d.journal == nil {
		return
	}
	rec.CreatedAt = d.now()
	if _, err := d.journal.Record(rec); err != nil {
		d.log.Warn().Err(err).Str("kind", string(rec.Kind)).Msg("journal write failed")
	}
}

// actionFailure maps a failed action onto a notice. Server errors are shown
// verbatim.
func actionFailure(err error) model.Notice {
	var apiErr *farm.APIError
	switch {
	case errors.As(err, &apiErr):
		return model.Notice{Message: apiErr.Message, Kind: model.NoticeError}
	case errors.Is(err, farm.ErrUnauthorized):
		return model.Notice{Message: MsgSessionExpired, Kind: model.NoticeError}
	case errors.Is(err, farm.ErrRateLimited):
		return model.Notice{Message: MsgRateLimited, Kind: model.NoticeError}
	default:
		return model.Notice{Message: MsgNetworkError, Kind: model.NoticeError}
	}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *farm.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
