package dispatch

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/cfarm/internal/cooldown"
	"github.com/theirongolddev/cfarm/internal/farm"
	"github.com/theirongolddev/cfarm/internal/farm/farmtest"
	"github.com/theirongolddev/cfarm/internal/model"
	"github.com/theirongolddev/cfarm/internal/notify"
	"github.com/theirongolddev/cfarm/internal/view"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type memJournal struct {
	mu   sync.Mutex
	recs []model.ActionRecord
}

func (j *memJournal) Record(rec model.ActionRecord) (model.ActionRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.recs = append(j.recs, rec)
	return rec, nil
}

func newDispatcher(t *testing.T, srv *farmtest.Server, opts ...Option) *Dispatcher {
	t.Helper()
	c, err := farm.NewClient(srv.URL, "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return New(c, opts...)
}

func TestContributeSuccessUpdatesBalanceAndProgress(t *testing.T) {
	srv := farmtest.New()
	defer srv.Close()
	srv.Respond(farmtest.RouteHelp, http.StatusOK, map[string]any{
		"success":          true,
		"new_balance":      120.5,
		"project_progress": 75,
	})

	j := &memJournal{}
	d := newDispatcher(t, srv, WithJournal(j))
	res := d.Contribute(context.Background(), "7", 10)
	if res.Err != nil {
		t.Fatalf("Contribute: %v", res.Err)
	}

	vm := view.New()
	vm.Apply(res.Commands...)
	if got := vm.Text(view.UserBalance); got != "120.50" {
		t.Errorf("user-balance = %q, want 120.50", got)
	}
	if got := vm.Text(view.StatBalance); got != "120.50" {
		t.Errorf("stat-balance = %q, want 120.50", got)
	}
	bar := view.ProjectBarTarget("7")
	if vm.Width(bar) != "75%" || vm.Text(bar) != "75%" {
		t.Errorf("bar width/label = %q/%q, want 75%%", vm.Width(bar), vm.Text(bar))
	}
	if len(res.Notices) != 1 || res.Notices[0].Message != MsgThanks || res.Notices[0].Kind != model.NoticeSuccess {
		t.Errorf("notices = %+v", res.Notices)
	}
	if res.Reload {
		t.Error("direct contribution asked for reload")
	}

	cs := srv.Contributions()
	if len(cs) != 1 || cs[0].ContentType != "application/json" || cs[0].Amount != 10 {
		t.Fatalf("contributions = %+v", cs)
	}
	if len(j.recs) != 1 || j.recs[0].Kind != model.ActionContribute || !j.recs[0].OK || j.recs[0].ProjectID != "7" {
		t.Fatalf("journal = %+v", j.recs)
	}
}

func TestContributeServerErrorShownOnceAndExpires(t *testing.T) {
	srv := farmtest.New()
	defer srv.Close()
	srv.Respond(farmtest.RouteHelp, http.StatusBadRequest, map[string]any{"error": "Insufficient balance"})

	d := newDispatcher(t, srv)
	res := d.Contribute(context.Background(), "1", 1000)
	if res.Err == nil {
		t.Fatal("expected error")
	}
	if len(res.Commands) != 0 {
		t.Errorf("failed contribution produced commands: %+v", res.Commands)
	}
	if len(res.Notices) != 1 {
		t.Fatalf("notices = %+v, want exactly one", res.Notices)
	}

	clk := newFakeClock()
	center := notify.NewCenter(notify.WithClock(clk.now))
	start := clk.now()
	for _, n := range res.Notices {
		center.Notify(n.Message, n.Kind)
	}

	active := center.Active(start)
	if len(active) != 1 || active[0].Message != "Insufficient balance" || active[0].Kind != model.NoticeError {
		t.Fatalf("active = %+v", active)
	}
	if len(center.Active(start.Add(4999*time.Millisecond))) != 1 {
		t.Error("notification gone before 5000ms")
	}
	if len(center.Active(start.Add(5000*time.Millisecond))) != 0 {
		t.Error("notification still present at 5000ms")
	}
}

func TestContributeTransportFailureIsGeneric(t *testing.T) {
	srv := farmtest.New()
	d := newDispatcher(t, srv)
	srv.Close()

	res := d.Contribute(context.Background(), "1", 5)
	if !errors.Is(res.Err, farm.ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", res.Err)
	}
	if len(res.Notices) != 1 || res.Notices[0].Message != MsgNetworkError || res.Notices[0].Kind != model.NoticeError {
		t.Fatalf("notices = %+v", res.Notices)
	}
}

func TestContributeExpiredSession(t *testing.T) {
	srv := farmtest.New()
	defer srv.Close()
	srv.RequireSession("good")

	d := newDispatcher(t, srv)
	res := d.Contribute(context.Background(), "1", 5)
	if !errors.Is(res.Err, farm.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", res.Err)
	}
	if len(res.Notices) != 1 || res.Notices[0].Message != MsgSessionExpired {
		t.Fatalf("notices = %+v", res.Notices)
	}
}

func TestContributeConfirmedUsesFormAndReloads(t *testing.T) {
	srv := farmtest.New()
	defer srv.Close()

	d := newDispatcher(t, srv)
	res := d.ContributeConfirmed(context.Background(), "3", 50)
	if res.Err != nil {
		t.Fatalf("ContributeConfirmed: %v", res.Err)
	}
	if !res.Reload {
		t.Error("confirmed contribution did not ask for reload")
	}
	want := "Thank you for your help! You donated 50"
	if len(res.Notices) != 1 || res.Notices[0].Message != want {
		t.Fatalf("notices = %+v, want %q", res.Notices, want)
	}

	cs := srv.Contributions()
	if len(cs) != 1 || cs[0].ContentType != "application/x-www-form-urlencoded" || cs[0].Amount != 50 || cs[0].ProjectID != "3" {
		t.Fatalf("contributions = %+v", cs)
	}
}

func TestContributeConfirmedErrorDoesNotReload(t *testing.T) {
	srv := farmtest.New()
	defer srv.Close()
	srv.Respond(farmtest.RouteHelp, http.StatusOK, map[string]any{"success": false, "error": "Project is closed"})

	d := newDispatcher(t, srv)
	res := d.ContributeConfirmed(context.Background(), "3", 50)
	if res.Reload {
		t.Error("failed confirmed contribution asked for reload")
	}
	if len(res.Notices) != 1 || res.Notices[0].Message != "Project is closed" || res.Notices[0].Kind != model.NoticeError {
		t.Fatalf("notices = %+v", res.Notices)
	}
}

func TestConfirmPrompt(t *testing.T) {
	if got := ConfirmPrompt(2.5); got != "Are you sure you want to help this project with 2.5?" {
		t.Fatalf("ConfirmPrompt = %q", got)
	}
}

func TestTapCooldown(t *testing.T) {
	srv := farmtest.New()
	defer srv.Close()
	srv.SetStats(model.UserStats{Balance: 1.25, Level: 1, Experience: 42, NextLevel: 100})
	srv.SetReward(0.05)

	clk := newFakeClock()
	d := newDispatcher(t, srv, WithGate(cooldown.New(cooldown.DefaultSpacing, clk.now)))
	release := srv.HoldTaps()

	tok, ok := d.TryTap()
	if !ok {
		t.Fatal("first tap denied")
	}
	done := make(chan Result, 1)
	go func() { done <- d.Tap(context.Background(), tok) }()

	clk.advance(400 * time.Millisecond)
	if _, ok := d.TryTap(); ok {
		t.Fatal("second tap within 1000ms admitted")
	}

	release()
	res := <-done
	if res.Err != nil {
		t.Fatalf("Tap: %v", res.Err)
	}
	if srv.Hits(farmtest.RouteTap) != 1 {
		t.Fatalf("tap hits = %d, want 1", srv.Hits(farmtest.RouteTap))
	}
	if res.Reward == nil || *res.Reward != 0.05 {
		t.Fatalf("reward = %v, want 0.05", res.Reward)
	}
	vm := view.New()
	vm.Apply(res.Commands...)
	if vm.Text(view.UserBalance) != "1.25" || vm.Width(view.ExperienceBar) != "42%" {
		t.Fatalf("balance/bar = %q/%q", vm.Text(view.UserBalance), vm.Width(view.ExperienceBar))
	}

	clk.advance(600 * time.Millisecond)
	res, ok = d.TapOnce(context.Background())
	if !ok {
		t.Fatal("third tap after 1000ms and response denied")
	}
	if res.Err != nil {
		t.Fatalf("third tap: %v", res.Err)
	}
	if srv.Hits(farmtest.RouteTap) != 2 {
		t.Fatalf("tap hits = %d, want 2", srv.Hits(farmtest.RouteTap))
	}
}

func TestTapTransportFailureReleasesGateSilently(t *testing.T) {
	srv := farmtest.New()
	clk := newFakeClock()
	j := &memJournal{}
	d := newDispatcher(t, srv, WithGate(cooldown.New(cooldown.DefaultSpacing, clk.now)), WithJournal(j))
	srv.Close()

	res, ok := d.TapOnce(context.Background())
	if !ok {
		t.Fatal("tap denied")
	}
	if res.Err == nil {
		t.Fatal("expected transport error")
	}
	if len(res.Notices) != 0 {
		t.Fatalf("transport failure produced notices: %+v", res.Notices)
	}
	if d.Gate().Busy() {
		t.Fatal("gate still busy after failed tap")
	}
	if len(j.recs) != 1 || j.recs[0].OK {
		t.Fatalf("journal = %+v", j.recs)
	}
}

func TestTapServerErrorIsShown(t *testing.T) {
	srv := farmtest.New()
	defer srv.Close()
	srv.Respond(farmtest.RouteTap, http.StatusBadRequest, map[string]any{"error": "Please wait before tapping again"})

	d := newDispatcher(t, srv)
	res, _ := d.TapOnce(context.Background())
	if len(res.Notices) != 1 || res.Notices[0].Message != "Please wait before tapping again" {
		t.Fatalf("notices = %+v", res.Notices)
	}
	if d.Gate().Busy() {
		t.Fatal("gate still busy after rejected tap")
	}
}

func TestRefreshAllIsIndependent(t *testing.T) {
	srv := farmtest.New()
	defer srv.Close()
	srv.SetProjects([]model.Project{{ID: "4", Title: "Well", CurrentAmount: 45, TargetAmount: 90}})
	srv.Respond(farmtest.RouteStats, http.StatusInternalServerError, map[string]any{"error": "boom"})

	d := newDispatcher(t, srv)
	res := d.RefreshAll(context.Background())
	if res.Err == nil {
		t.Fatal("expected stats error")
	}
	if res.Stats != nil {
		t.Errorf("stats = %+v, want nil", res.Stats)
	}
	if len(res.Projects) != 1 {
		t.Fatalf("projects = %+v", res.Projects)
	}
	if len(res.Notices) != 0 {
		t.Errorf("refresh produced notices: %+v", res.Notices)
	}

	vm := view.New()
	vm.Apply(res.Commands...)
	if got := vm.Text(view.ProjectBarTarget("4")); got != "50%" {
		t.Fatalf("project label = %q, want 50%%", got)
	}
	if srv.Hits(farmtest.RouteStats) != 1 || srv.Hits(farmtest.RouteProjects) != 1 {
		t.Fatal("each endpoint should be hit once")
	}
}

func TestContributeServerTextWinsOverStatus(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := farmtest.New()
			defer srv.Close()
			srv.Respond(farmtest.RouteHelp, status, map[string]any{"error": "Insufficient funds"})

			res := newDispatcher(t, srv).Contribute(context.Background(), "1", 5)
			if len(res.Notices) != 1 || res.Notices[0].Message != "Insufficient funds" {
				t.Fatalf("notices = %+v, want the server text", res.Notices)
			}
		})
	}
}

func TestContributeRateLimitedWithoutText(t *testing.T) {
	srv := farmtest.New()
	defer srv.Close()
	srv.Respond(farmtest.RouteHelp, http.StatusTooManyRequests, map[string]any{})

	res := newDispatcher(t, srv).Contribute(context.Background(), "1", 5)
	if !errors.Is(res.Err, farm.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", res.Err)
	}
	if len(res.Notices) != 1 || res.Notices[0].Message != MsgRateLimited {
		t.Fatalf("notices = %+v", res.Notices)
	}
}

func TestTapWithoutTotalsKeepsLastTotals(t *testing.T) {
	srv := farmtest.New()
	defer srv.Close()
	srv.SetStats(model.UserStats{Balance: 5, Level: 1, Experience: 10, NextLevel: 100, TotalHelp: 120, CompletedProjects: 2})

	clk := newFakeClock()
	d := newDispatcher(t, srv, WithGate(cooldown.New(cooldown.DefaultSpacing, clk.now)))
	vm := view.New()
	vm.Apply(d.RefreshStats(context.Background()).Commands...)

	srv.Respond(farmtest.RouteTap, http.StatusOK, map[string]any{
		"success": true, "reward": 0.01, "balance": 5.01, "experience": 11, "level": 1, "next_level": 100,
	})
	res, ok := d.TapOnce(context.Background())
	if !ok || res.Err != nil {
		t.Fatalf("tap: ok=%v err=%v", ok, res.Err)
	}
	vm.Apply(res.Commands...)

	if got := vm.Text(view.StatBalance); got != "5.01" {
		t.Errorf("stat-balance = %q, want 5.01", got)
	}
	if got := vm.Text(view.StatTotalHelp); got != "120.00" {
		t.Errorf("stat-total-help = %q, want 120.00", got)
	}
	if got := vm.Text(view.StatProjects); got != "2" {
		t.Errorf("stat-projects = %q, want 2", got)
	}
	if res.Stats == nil || res.Stats.TotalHelp != 120 || res.Stats.CompletedProjects != 2 || res.Stats.Balance != 5.01 {
		t.Fatalf("stats = %+v", res.Stats)
	}
}

func TestCollectAFK(t *testing.T) {
	srv := farmtest.New()
	defer srv.Close()
	srv.SetStats(model.UserStats{Balance: 10})

	j := &memJournal{}
	d := newDispatcher(t, srv, WithJournal(j))

	res := d.CollectAFK(context.Background())
	if res.Err != nil {
		t.Fatalf("CollectAFK: %v", res.Err)
	}
	if len(res.Notices) != 1 || res.Notices[0].Message != farmtest.MsgNoAFKUpgrade || res.Notices[0].Kind != model.NoticeInfo {
		t.Fatalf("notices without upgrade = %+v", res.Notices)
	}

	srv.SetAFKEarnings(1.5)
	res = d.CollectAFK(context.Background())
	if res.Err != nil {
		t.Fatalf("CollectAFK: %v", res.Err)
	}
	if len(res.Notices) != 1 || res.Notices[0].Message != "Collected 1.50 while away" || res.Notices[0].Kind != model.NoticeSuccess {
		t.Fatalf("notices = %+v", res.Notices)
	}
	vm := view.New()
	vm.Apply(res.Commands...)
	if vm.Text(view.UserBalance) != "11.50" || vm.Text(view.StatBalance) != "11.50" {
		t.Fatalf("balance = %q/%q, want 11.50", vm.Text(view.UserBalance), vm.Text(view.StatBalance))
	}
	if res.AFK == nil || res.AFK.TotalAFKEarnings != 1.5 {
		t.Fatalf("afk = %+v", res.AFK)
	}
	if len(j.recs) != 2 || j.recs[1].Kind != model.ActionAFK || j.recs[1].Reward != 1.5 || !j.recs[1].OK {
		t.Fatalf("journal = %+v", j.recs)
	}
}

func TestPurchaseUpgrade(t *testing.T) {
	srv := farmtest.New()
	defer srv.Close()
	srv.SetStats(model.UserStats{Balance: 50})
	srv.AddUpgrade("1", 20, 5)

	j := &memJournal{}
	d := newDispatcher(t, srv, WithJournal(j))

	res := d.PurchaseUpgrade(context.Background(), "1")
	if res.Err != nil {
		t.Fatalf("PurchaseUpgrade: %v", res.Err)
	}
	if res.Upgrade == nil || res.Upgrade.UpgradeLevel != 1 || res.Upgrade.NextCost != 30 {
		t.Fatalf("upgrade = %+v", res.Upgrade)
	}
	vm := view.New()
	vm.Apply(res.Commands...)
	if got := vm.Text(view.UserBalance); got != "30.00" {
		t.Fatalf("balance = %q, want 30.00", got)
	}
	if len(res.Notices) != 1 || res.Notices[0].Message != farmtest.MsgUpgraded {
		t.Fatalf("notices = %+v", res.Notices)
	}

	// 30 left, next level costs 30, then 45.
	d.PurchaseUpgrade(context.Background(), "1")
	res = d.PurchaseUpgrade(context.Background(), "1")
	if len(res.Notices) != 1 || res.Notices[0].Message != farmtest.MsgNoFunds || res.Notices[0].Kind != model.NoticeError {
		t.Fatalf("notices = %+v, want %q", res.Notices, farmtest.MsgNoFunds)
	}
	if srv.Balance() != 0 {
		t.Fatalf("server balance = %v, want 0", srv.Balance())
	}

	last := j.recs[len(j.recs)-1]
	if last.Kind != model.ActionUpgrade || last.ProjectID != "1" || last.OK || last.Message != farmtest.MsgNoFunds {
		t.Fatalf("journal = %+v", last)
	}
}
