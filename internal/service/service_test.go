package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/heroines-gacha/fights/internal/engine"
	"github.com/heroines-gacha/fights/internal/fight"
	"github.com/heroines-gacha/fights/internal/keys"
	"github.com/heroines-gacha/fights/internal/storage"
)

type mockRepo struct {
	mu       sync.Mutex
	fights   map[string]*fight.Record
	bossMap  map[string]int
	stageWon map[string]int
	// failResult makes SetFightResult fail.
	failResult bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{fights: map[string]*fight.Record{}, bossMap: map[string]int{}, stageWon: map[string]int{}}
}

func (m *mockRepo) CreateFight(ctx context.Context, r *fight.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fights[r.ID] = r
	return nil
}

func (m *mockRepo) GetFight(ctx context.Context, id string) (*fight.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.fights[id]; ok {
		return r, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockRepo) SetFightResult(ctx context.Context, id string, result fight.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failResult {
		return errors.New("db down")
	}
	r, ok := m.fights[id]
	if !ok {
		return storage.ErrNotFound
	}
	r.Result = result
	return nil
}

func (m *mockRepo) ListFightsByUser(ctx context.Context, userID string, limit int) ([]fight.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []fight.Record
	for _, r := range m.fights {
		if r.UserID == userID && len(out) < limit {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRepo) HighestBossMapWon(ctx context.Context, userID, campaign string) (int, error) {
	return m.bossMap[campaign], nil
}

func (m *mockRepo) HighestStageWon(ctx context.Context, userID, mapID string) (int, error) {
	return m.stageWon[mapID], nil
}

// mockStates keeps encoded blobs so callers never share state pointers.
type mockStates struct {
	mu    sync.Mutex
	blobs map[string][]byte
	// expired keys are dropped by the next DeleteExpired.
	expired   []string
	failStore bool
}

func newMockStates() *mockStates { return &mockStates{blobs: map[string][]byte{}} }

func (m *mockStates) LoadState(ctx context.Context, key string) (*fight.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrStateNotFound
	}
	return storage.DecodeState(b)
}

func (m *mockStates) StoreState(ctx context.Context, key string, s *fight.State, ttl time.Duration) error {
	b, err := storage.EncodeState(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return errors.New("disk full")
	}
	m.blobs[key] = b
	return nil
}

func (m *mockStates) DeleteExpired(ctx context.Context, now time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := m.expired
	m.expired = nil
	for _, k := range removed {
		delete(m.blobs, k)
	}
	return removed, nil
}

type mockPublisher struct {
	mu     sync.Mutex
	calls  int
	events []fight.Event
	// onPublish runs before the call is recorded.
	onPublish func(fightID string)
}

func (m *mockPublisher) Publish(fightID string, s *fight.State, newEvents []fight.Event) {
	if m.onPublish != nil {
		m.onPublish(fightID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.events = append(m.events, newEvents...)
}

func testCatalog() *fight.Catalog {
	return &fight.Catalog{
		Allies: map[string]fight.Template{
			"aria": {ID: "aria", Name: "Aria", Class: fight.ClassDPS, Stats: fight.BaseStats{HP: 100, Atk: 30, Def: 5}},
			"cora": {ID: "cora", Name: "Cora", Class: fight.ClassHealer, Stats: fight.BaseStats{HP: 80, Atk: 10, MAtk: 20, Def: 5},
				Spell: fight.SpellPoweredHeal},
		},
		Enemies: map[string]fight.Template{
			"slime": {ID: "slime", Name: "Slime", Class: fight.ClassTank, Stats: fight.BaseStats{HP: 20, Atk: 5}},
		},
		Spells: map[fight.SpellName]fight.SpellTemplate{
			fight.SpellPoweredHeal: {Name: fight.SpellPoweredHeal, RequiredMana: 20, ManaIncrease: 5, MaxMana: 40},
		},
		Maps: map[string]fight.MapDef{
			"m1": {ID: "m1", Campaign: "main", Level: 1},
			"m2": {ID: "m2", Campaign: "main", Level: 2},
		},
		Stages: map[string]fight.StageDef{
			"s1": {ID: "s1", MapID: "m1", MapLevel: 1, Enemies: []fight.StageEnemy{{EnemyID: "slime", Position: 1, Level: 1}}},
			"s2": {ID: "s2", MapID: "m1", MapLevel: 2, Boss: true, Enemies: []fight.StageEnemy{{EnemyID: "slime", Position: 1, Level: 3}}},
			"s3": {ID: "s3", MapID: "m2", MapLevel: 1, Enemies: []fight.StageEnemy{{EnemyID: "slime", Position: 1, Level: 4}}},
		},
	}
}

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type fixture struct {
	svc    *Service
	repo   *mockRepo
	states *mockStates
	pub    *mockPublisher
}

func newFixture(cat *fight.Catalog, seed int64) *fixture {
	f := &fixture{repo: newMockRepo(), states: newMockStates(), pub: &mockPublisher{}}
	opts := Options{
		Repo:      f.repo,
		States:    f.states,
		Catalog:   cat,
		Publisher: f.pub,
		MediaURL:  "/media/",
		NewID:     counterIDs(),
	}
	if seed != 0 {
		opts.Engine = []engine.Option{engine.WithRand(rand.New(rand.NewSource(seed))), engine.WithIDGenerator(counterIDs())}
	}
	f.svc = New(opts)
	return f
}

func TestStartFight_BuildsInitialState(t *testing.T) {
	f := newFixture(testCatalog(), 1)
	rec, st, err := f.svc.StartFight(context.Background(), StartFightRequest{
		UserID:  "u1",
		StageID: "s1",
		Party:   []PartyMember{{AllyID: "aria", Position: 2, Level: 1}, {AllyID: "cora", Position: 1, Level: 2}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != "id-1" || rec.Result != fight.StatusActive || len(rec.Allies) != 2 || len(rec.Enemies) != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if st.Turn != 1 || st.Status != fight.StatusActive || st.LatestEventsIndex != 0 || len(st.Events) != 0 {
		t.Fatalf("unexpected initial state: %+v", st)
	}
	if st.BgURL != "/media/battleBgs/m1.png" {
		t.Fatalf("bgUrl = %q", st.BgURL)
	}
	got := []string{st.Characters[0].ID, st.Characters[1].ID, st.Characters[2].ID}
	if got[0] != "slime" || got[1] != "cora" || got[2] != "aria" {
		t.Fatalf("roster order = %v, want enemies first then allies by position", got)
	}
	cora := st.Characters[1]
	if cora.HP != 84 || cora.MaxHP != 84 || cora.MAtk != 21 {
		t.Fatalf("cora stats not leveled: %+v", cora)
	}
	if cora.ActiveSpell == nil || cora.ActiveSpell.CurrentMana != 0 || cora.ActiveSpell.RequiredMana != 20 {
		t.Fatalf("cora spell = %+v", cora.ActiveSpell)
	}
	if st.Characters[2].ImageURL != "/media/allies/aria.portrait.png" || st.Characters[0].ImageURL != "/media/enemies/slime.png" {
		t.Fatalf("unexpected image urls: %q %q", st.Characters[2].ImageURL, st.Characters[0].ImageURL)
	}
	if st.Characters[0].FightID != rec.Enemies[0].ID {
		t.Fatalf("enemy fightId %q does not match record row %q", st.Characters[0].FightID, rec.Enemies[0].ID)
	}
	if _, ok := f.states.blobs[keys.StateKey(rec.ID)]; !ok {
		t.Fatalf("initial state was not stored")
	}
}

func TestStartFight_Rejections(t *testing.T) {
	f := newFixture(testCatalog(), 1)
	aria := []PartyMember{{AllyID: "aria", Position: 1}}
	cases := []struct {
		name string
		req  StartFightRequest
		want error
	}{
		{"unknown stage", StartFightRequest{UserID: "u1", StageID: "nope", Party: aria}, ErrStageNotFound},
		{"stage ahead", StartFightRequest{UserID: "u1", StageID: "s2", Party: aria}, ErrStageLocked},
		{"map ahead", StartFightRequest{UserID: "u1", StageID: "s3", Party: aria}, ErrStageLocked},
		{"empty party", StartFightRequest{UserID: "u1", StageID: "s1"}, ErrNoAllies},
		{"unknown ally", StartFightRequest{UserID: "u1", StageID: "s1", Party: []PartyMember{{AllyID: "zed", Position: 1}}}, ErrUnknownAlly},
		{"shared position", StartFightRequest{UserID: "u1", StageID: "s1", Party: []PartyMember{{AllyID: "aria", Position: 1}, {AllyID: "cora", Position: 1}}}, ErrInvalidParty},
		{"no position", StartFightRequest{UserID: "u1", StageID: "s1", Party: []PartyMember{{AllyID: "aria"}}}, ErrInvalidParty},
	}
	for _, tc := range cases {
		if _, _, err := f.svc.StartFight(context.Background(), tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
	if len(f.repo.fights) != 0 {
		t.Fatalf("rejected requests must not create records")
	}
}

func TestStartFight_ProgressionGate(t *testing.T) {
	f := newFixture(testCatalog(), 1)
	aria := []PartyMember{{AllyID: "aria", Position: 1}}

	f.repo.stageWon["m1"] = 1
	if _, _, err := f.svc.StartFight(context.Background(), StartFightRequest{UserID: "u1", StageID: "s2", Party: aria}); err != nil {
		t.Fatalf("second stage should be open after winning the first: %v", err)
	}
	if _, _, err := f.svc.StartFight(context.Background(), StartFightRequest{UserID: "u1", StageID: "s1", Party: aria}); !errors.Is(err, ErrStageLocked) {
		t.Fatalf("replaying a won stage: got %v", err)
	}

	// Beating the boss of map 1 moves the campaign to map 2; beating it
	// again past the last map keeps the player on the last map.
	for _, boss := range []int{1, 2} {
		f.repo.bossMap["main"] = boss
		if _, _, err := f.svc.StartFight(context.Background(), StartFightRequest{UserID: "u1", StageID: "s3", Party: aria}); err != nil {
			t.Fatalf("boss map %d: stage on map 2 should be open: %v", boss, err)
		}
		if _, _, err := f.svc.StartFight(context.Background(), StartFightRequest{UserID: "u1", StageID: "s2", Party: aria}); !errors.Is(err, ErrStageLocked) {
			t.Fatalf("boss map %d: map 1 should be locked, got %v", boss, err)
		}
	}
}

func startOne(t *testing.T, f *fixture, party ...PartyMember) *fight.Record {
	t.Helper()
	if len(party) == 0 {
		party = []PartyMember{{AllyID: "aria", Position: 1}}
	}
	rec, _, err := f.svc.StartFight(context.Background(), StartFightRequest{UserID: "u1", StageID: "s1", Party: party})
	if err != nil {
		t.Fatalf("start fight: %v", err)
	}
	return rec
}

func TestResolveTurn_WinMirrorsResult(t *testing.T) {
	f := newFixture(testCatalog(), 7)
	rec := startOne(t, f)

	st, err := f.svc.ResolveTurn(context.Background(), "u1", rec.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Status != fight.StatusWin {
		t.Fatalf("aria one-shots the slime; status = %s", st.Status)
	}
	if f.repo.fights[rec.ID].Result != fight.StatusWin {
		t.Fatalf("record result not mirrored: %s", f.repo.fights[rec.ID].Result)
	}
	last := st.Events[len(st.Events)-1]
	if last.Action != fight.EventVictory {
		t.Fatalf("last event = %+v, want victory", last)
	}
	if f.pub.calls != 1 || len(f.pub.events) != len(st.Events) {
		t.Fatalf("publisher got %d calls / %d events", f.pub.calls, len(f.pub.events))
	}

	again, err := f.svc.ResolveTurn(context.Background(), "u1", rec.ID)
	if err != nil {
		t.Fatalf("resolving a finished fight: %v", err)
	}
	if len(again.Events) != len(st.Events) || again.Turn != st.Turn {
		t.Fatalf("finished fight changed: %+v", again)
	}
	if f.pub.calls != 1 {
		t.Fatalf("finished fight must not publish, calls = %d", f.pub.calls)
	}
}

func TestResolveTurn_StoreFailureLeavesRecordActive(t *testing.T) {
	f := newFixture(testCatalog(), 7)
	rec := startOne(t, f)

	f.states.failStore = true
	if _, err := f.svc.ResolveTurn(context.Background(), "u1", rec.ID); err == nil {
		t.Fatalf("expected the store error")
	}
	if f.repo.fights[rec.ID].Result != fight.StatusActive {
		t.Fatalf("record claims %s but no state was stored", f.repo.fights[rec.ID].Result)
	}
	if f.pub.calls != 0 {
		t.Fatalf("unstored turn was published")
	}

	f.states.failStore = false
	st, err := f.svc.ResolveTurn(context.Background(), "u1", rec.ID)
	if err != nil || st.Status != fight.StatusWin {
		t.Fatalf("retry = %+v, %v", st, err)
	}
	if f.repo.fights[rec.ID].Result != fight.StatusWin {
		t.Fatalf("record result not mirrored: %s", f.repo.fights[rec.ID].Result)
	}
}

func TestResolveTurn_RetryMirrorsStoredOutcome(t *testing.T) {
	f := newFixture(testCatalog(), 7)
	rec := startOne(t, f)

	f.repo.failResult = true
	if _, err := f.svc.ResolveTurn(context.Background(), "u1", rec.ID); err == nil {
		t.Fatalf("expected the result error")
	}
	stored, err := f.states.LoadState(context.Background(), keys.StateKey(rec.ID))
	if err != nil || stored.Status != fight.StatusWin {
		t.Fatalf("terminal state should be stored before the record: %+v, %v", stored, err)
	}
	if f.repo.fights[rec.ID].Result != fight.StatusActive {
		t.Fatalf("record result = %s", f.repo.fights[rec.ID].Result)
	}

	f.repo.failResult = false
	st, err := f.svc.ResolveTurn(context.Background(), "u1", rec.ID)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if st.Turn != stored.Turn || len(st.Events) != len(stored.Events) {
		t.Fatalf("retry resolved another turn: %+v", st)
	}
	if f.repo.fights[rec.ID].Result != fight.StatusWin {
		t.Fatalf("retry did not mirror the stored outcome: %s", f.repo.fights[rec.ID].Result)
	}
}

func TestResolveTurn_PublishesOutsideFightLock(t *testing.T) {
	f := newFixture(testCatalog(), 7)
	rec := startOne(t, f)

	held := -1
	f.pub.onPublish = func(string) { held = f.svc.locks.Len() }
	if _, err := f.svc.ResolveTurn(context.Background(), "u1", rec.ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if held != 0 {
		t.Fatalf("publish ran with %d fight locks held", held)
	}
}

func TestResolveTurn_Ownership(t *testing.T) {
	f := newFixture(testCatalog(), 7)
	rec := startOne(t, f)

	if _, err := f.svc.ResolveTurn(context.Background(), "intruder", rec.ID); !errors.Is(err, ErrFightNotFound) {
		t.Fatalf("other user: got %v", err)
	}
	if _, err := f.svc.ResolveTurn(context.Background(), "u1", "missing"); !errors.Is(err, ErrFightNotFound) {
		t.Fatalf("missing fight: got %v", err)
	}
	delete(f.states.blobs, keys.StateKey(rec.ID))
	if _, err := f.svc.ResolveTurn(context.Background(), "u1", rec.ID); !errors.Is(err, ErrFightNotFound) {
		t.Fatalf("missing state: got %v", err)
	}
}

func TestGetState(t *testing.T) {
	f := newFixture(testCatalog(), 7)
	rec := startOne(t, f)

	st, err := f.svc.GetState(context.Background(), "u1", rec.ID)
	if err != nil || st.Turn != 1 {
		t.Fatalf("GetState = %+v, %v", st, err)
	}
	if _, err := f.svc.GetState(context.Background(), "u2", rec.ID); !errors.Is(err, ErrFightNotFound) {
		t.Fatalf("other user: got %v", err)
	}
	delete(f.states.blobs, keys.StateKey(rec.ID))
	if _, err := f.svc.GetState(context.Background(), "u1", rec.ID); !errors.Is(err, ErrStateUnavailable) {
		t.Fatalf("expired state: got %v", err)
	}
}

func TestSweepExpiredStates(t *testing.T) {
	f := newFixture(testCatalog(), 7)
	rec := startOne(t, f)

	ids, err := f.svc.SweepExpiredStates(context.Background(), time.Now())
	if err != nil || len(ids) != 0 {
		t.Fatalf("nothing expired: %v, %v", ids, err)
	}

	f.states.expired = []string{keys.StateKey(rec.ID), "junk"}
	ids, err = f.svc.SweepExpiredStates(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(ids) != 1 || ids[0] != rec.ID {
		t.Fatalf("swept fights = %v, want [%s]", ids, rec.ID)
	}
	if _, err := f.svc.GetState(context.Background(), "u1", rec.ID); !errors.Is(err, ErrStateUnavailable) {
		t.Fatalf("swept state: got %v", err)
	}
	if f.repo.fights[rec.ID] == nil {
		t.Fatalf("sweeping must keep the record")
	}
}

func TestUpdateLatestEventsIndex(t *testing.T) {
	f := newFixture(testCatalog(), 7)
	rec := startOne(t, f)
	st, err := f.svc.ResolveTurn(context.Background(), "u1", rec.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	n := len(st.Events)

	if _, err := f.svc.UpdateLatestEventsIndex(context.Background(), "u1", rec.ID, n+1); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("past the end: got %v", err)
	}
	got, err := f.svc.UpdateLatestEventsIndex(context.Background(), "u1", rec.ID, n)
	if err != nil || got.LatestEventsIndex != n {
		t.Fatalf("move to end: %+v, %v", got, err)
	}
	if _, err := f.svc.UpdateLatestEventsIndex(context.Background(), "u1", rec.ID, n-1); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("moving backwards: got %v", err)
	}
	if got, err := f.svc.UpdateLatestEventsIndex(context.Background(), "u1", rec.ID, n); err != nil || got.LatestEventsIndex != n {
		t.Fatalf("same index must be accepted: %v", err)
	}
	stored, _ := f.states.LoadState(context.Background(), keys.StateKey(rec.ID))
	if stored.LatestEventsIndex != n {
		t.Fatalf("cursor not stored: %d", stored.LatestEventsIndex)
	}
}

func TestResolveTurn_ConcurrentCallsLoseNoTurn(t *testing.T) {
	cat := testCatalog()
	// Nobody can hurt anybody: the fight never ends.
	cat.Allies["aria"] = fight.Template{ID: "aria", Class: fight.ClassDPS, Stats: fight.BaseStats{HP: 100, Atk: 0, Def: 10}}
	f := newFixture(cat, 0)
	rec := startOne(t, f)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.ResolveTurn(context.Background(), "u1", rec.ID); err != nil {
				t.Errorf("resolve: %v", err)
			}
		}()
	}
	wg.Wait()

	st, err := f.svc.GetState(context.Background(), "u1", rec.ID)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if st.Status != fight.StatusActive {
		t.Fatalf("stalemate fight ended: %s", st.Status)
	}
	if st.Turn-1 != f.pub.calls {
		t.Fatalf("turn %d after %d stored resolutions", st.Turn, f.pub.calls)
	}
	if len(st.Events) != 2*f.pub.calls {
		t.Fatalf("events = %d, want two per resolved turn (%d)", len(st.Events), f.pub.calls)
	}
}

func TestListFights(t *testing.T) {
	f := newFixture(testCatalog(), 7)
	startOne(t, f)
	recs, err := f.svc.ListFights(context.Background(), "u1")
	if err != nil || len(recs) != 1 {
		t.Fatalf("ListFights = %v, %v", recs, err)
	}
	recs, err = f.svc.ListFights(context.Background(), "u2")
	if err != nil || len(recs) != 0 {
		t.Fatalf("other user sees fights: %v, %v", recs, err)
	}
}
