package service_test

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/metrics"
	"alcyxob/training-planner/internal/repository"
	"alcyxob/training-planner/internal/service"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Sessions ---

type sessionRepoMock struct {
	mu       sync.Mutex
	sessions map[primitive.ObjectID]domain.Session
}

func newSessionRepoMock() *sessionRepoMock {
	return &sessionRepoMock{sessions: map[primitive.ObjectID]domain.Session{}}
}

func (r *sessionRepoMock) Create(_ context.Context, session *domain.Session) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = primitive.NewObjectID()
	session.CreatedAt = time.Now().UTC()
	session.UpdatedAt = session.CreatedAt
	r.sessions[session.ID] = *session
	return session.ID, nil
}

func (r *sessionRepoMock) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *sessionRepoMock) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Session{}
	for _, id := range ids {
		if s, ok := r.sessions[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *sessionRepoMock) ListByOrganization(_ context.Context, orgID primitive.ObjectID) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Session{}
	for _, s := range r.sessions {
		if s.OrganizationID == orgID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *sessionRepoMock) Update(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; !ok {
		return repository.ErrNotFound
	}
	session.UpdatedAt = time.Now().UTC()
	r.sessions[session.ID] = *session
	return nil
}

func (r *sessionRepoMock) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *sessionRepoMock) OrganizationsOf(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owners := map[primitive.ObjectID]primitive.ObjectID{}
	for _, id := range ids {
		if s, ok := r.sessions[id]; ok {
			owners[id] = s.OrganizationID
		}
	}
	return owners, nil
}

func (r *sessionRepoMock) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// --- Session exercises ---

type sessionExerciseRepoMock struct {
	mu        sync.Mutex
	exercises map[primitive.ObjectID]domain.SessionExercise
	writes    int
}

func newSessionExerciseRepoMock() *sessionExerciseRepoMock {
	return &sessionExerciseRepoMock{exercises: map[primitive.ObjectID]domain.SessionExercise{}}
}

func (r *sessionExerciseRepoMock) Create(_ context.Context, se *domain.SessionExercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	se.ID = primitive.NewObjectID()
	se.CreatedAt = time.Now().UTC()
	se.UpdatedAt = se.CreatedAt
	r.exercises[se.ID] = *se
	r.writes++
	return se.ID, nil
}

func (r *sessionExerciseRepoMock) CreateMany(_ context.Context, items []domain.SessionExercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range items {
		items[i].ID = primitive.NewObjectID()
		r.exercises[items[i].ID] = items[i]
	}
	r.writes++
	return nil
}

func (r *sessionExerciseRepoMock) GetByID(_ context.Context, id primitive.ObjectID) (*domain.SessionExercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	se, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &se, nil
}

func (r *sessionExerciseRepoMock) ListBySession(_ context.Context, sessionID primitive.ObjectID) ([]domain.SessionExercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.SessionExercise{}
	for _, se := range r.exercises {
		if se.SessionID == sessionID {
			out = append(out, se)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out, nil
}

func (r *sessionExerciseRepoMock) MaxOrder(_ context.Context, sessionID primitive.ObjectID) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	last, found := 0, false
	for _, se := range r.exercises {
		if se.SessionID == sessionID && (!found || se.Order > last) {
			last, found = se.Order, true
		}
	}
	return last, found, nil
}

func (r *sessionExerciseRepoMock) Update(_ context.Context, se *domain.SessionExercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[se.ID]; !ok {
		return repository.ErrNotFound
	}
	r.exercises[se.ID] = *se
	r.writes++
	return nil
}

func (r *sessionExerciseRepoMock) Reorder(_ context.Context, sessionID primitive.ObjectID, orders []domain.ExerciseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range orders {
		se, ok := r.exercises[o.ID]
		if !ok || se.SessionID != sessionID {
			continue
		}
		se.Order = o.Order
		r.exercises[o.ID] = se
	}
	r.writes++
	return nil
}

func (r *sessionExerciseRepoMock) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

func (r *sessionExerciseRepoMock) DeleteBySession(_ context.Context, sessionID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, se := range r.exercises {
		if se.SessionID == sessionID {
			delete(r.exercises, id)
			n++
		}
	}
	return n, nil
}

func (r *sessionExerciseRepoMock) OrganizationsOf(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owners := map[primitive.ObjectID]primitive.ObjectID{}
	for _, id := range ids {
		if se, ok := r.exercises[id]; ok {
			owners[id] = se.OrganizationID
		}
	}
	return owners, nil
}

func (r *sessionExerciseRepoMock) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

// --- Weekly plans ---

type weeklyPlanRepoMock struct {
	mu    sync.Mutex
	plans map[primitive.ObjectID]domain.WeeklyPlan
}

func newWeeklyPlanRepoMock() *weeklyPlanRepoMock {
	return &weeklyPlanRepoMock{plans: map[primitive.ObjectID]domain.WeeklyPlan{}}
}

func clonePlan(p domain.WeeklyPlan) domain.WeeklyPlan {
	days := make([]domain.DayPlan, len(p.WeekDays))
	for i, d := range p.WeekDays {
		d.CompletedExercises = append([]primitive.ObjectID{}, d.CompletedExercises...)
		days[i] = d
	}
	p.WeekDays = days
	return p
}

func (r *weeklyPlanRepoMock) Create(_ context.Context, plan *domain.WeeklyPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now().UTC()
	plan.UpdatedAt = plan.CreatedAt
	r.plans[plan.ID] = clonePlan(*plan)
	return plan.ID, nil
}

func (r *weeklyPlanRepoMock) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WeeklyPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = clonePlan(p)
	return &p, nil
}

func (r *weeklyPlanRepoMock) list(match func(domain.WeeklyPlan) bool) []domain.WeeklyPlan {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.WeeklyPlan{}
	for _, p := range r.plans {
		if match(p) {
			out = append(out, clonePlan(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out
}

func (r *weeklyPlanRepoMock) ListByOrganization(_ context.Context, orgID primitive.ObjectID) ([]domain.WeeklyPlan, error) {
	return r.list(func(p domain.WeeklyPlan) bool { return p.OrganizationID == orgID }), nil
}

func (r *weeklyPlanRepoMock) ListByClient(_ context.Context, orgID, clientID primitive.ObjectID, activeOnly bool) ([]domain.WeeklyPlan, error) {
	return r.list(func(p domain.WeeklyPlan) bool {
		return p.OrganizationID == orgID && p.ClientID == clientID && (!activeOnly || p.IsActive)
	}), nil
}

func (r *weeklyPlanRepoMock) ListEndedWithForm(_ context.Context, orgID, clientID primitive.ObjectID, endedBy time.Time) ([]domain.WeeklyPlan, error) {
	return r.list(func(p domain.WeeklyPlan) bool {
		return p.OrganizationID == orgID && p.ClientID == clientID && p.FormTemplateID != nil && p.EndDate.Before(endedBy)
	}), nil
}

func (r *weeklyPlanRepoMock) Update(_ context.Context, plan *domain.WeeklyPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	plan.UpdatedAt = time.Now().UTC()
	r.plans[plan.ID] = clonePlan(*plan)
	return nil
}

func (r *weeklyPlanRepoMock) updateDay(planID primitive.ObjectID, dayOfWeek int, apply func(*domain.DayPlan)) (*domain.WeeklyPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[planID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = clonePlan(p)
	day, ok := p.Day(dayOfWeek)
	if !ok {
		return nil, repository.ErrNotFound
	}
	apply(day)
	p.UpdatedAt = time.Now().UTC()
	r.plans[planID] = p
	out := clonePlan(p)
	return &out, nil
}

func (r *weeklyPlanRepoMock) SetDayCompleted(_ context.Context, planID primitive.ObjectID, dayOfWeek int, completed bool) (*domain.WeeklyPlan, error) {
	return r.updateDay(planID, dayOfWeek, func(d *domain.DayPlan) { d.Completed = completed })
}

func (r *weeklyPlanRepoMock) SetExerciseCompleted(_ context.Context, planID primitive.ObjectID, dayOfWeek int, sessionExerciseID primitive.ObjectID, completed bool) (*domain.WeeklyPlan, error) {
	return r.updateDay(planID, dayOfWeek, func(d *domain.DayPlan) {
		kept := d.CompletedExercises[:0]
		for _, id := range d.CompletedExercises {
			if id != sessionExerciseID {
				kept = append(kept, id)
			}
		}
		if completed {
			kept = append(kept, sessionExerciseID)
		}
		d.CompletedExercises = kept
	})
}

func (r *weeklyPlanRepoMock) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

func (r *weeklyPlanRepoMock) stored(t *testing.T, id primitive.ObjectID) domain.WeeklyPlan {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		t.Fatalf("weekly plan %s not stored", id.Hex())
	}
	return clonePlan(p)
}

// --- Form responses ---

type formStoreMock struct {
	mu        sync.Mutex
	byPlan    map[primitive.ObjectID]domain.FormResponse
	calls     int
	failWith  error
	callDelay time.Duration
}

func newFormStoreMock() *formStoreMock {
	return &formStoreMock{byPlan: map[primitive.ObjectID]domain.FormResponse{}}
}

func (s *formStoreMock) CreatePending(_ context.Context, response *domain.FormResponse) (*domain.FormResponse, bool, error) {
	if s.callDelay > 0 {
		time.Sleep(s.callDelay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failWith != nil {
		return nil, false, s.failWith
	}
	if existing, ok := s.byPlan[*response.WeeklyPlanID]; ok {
		return &existing, false, nil
	}
	response.ID = primitive.NewObjectID()
	s.byPlan[*response.WeeklyPlanID] = *response
	return response, true, nil
}

func (s *formStoreMock) responses() []domain.FormResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.FormResponse, 0, len(s.byPlan))
	for _, r := range s.byPlan {
		out = append(out, r)
	}
	return out
}

func (s *formStoreMock) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// --- Catalogs ---

type catalogRepoMock struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]domain.CatalogItem
}

func newCatalogRepoMock() *catalogRepoMock {
	return &catalogRepoMock{items: map[primitive.ObjectID]domain.CatalogItem{}}
}

func (r *catalogRepoMock) taken(item *domain.CatalogItem) bool {
	for id, existing := range r.items {
		if id != item.ID && existing.OrganizationID == item.OrganizationID && existing.Name == item.Name {
			return true
		}
	}
	return false
}

func (r *catalogRepoMock) Create(_ context.Context, item *domain.CatalogItem) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(item) {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	item.ID = primitive.NewObjectID()
	r.items[item.ID] = *item
	return item.ID, nil
}

func (r *catalogRepoMock) GetByID(_ context.Context, id primitive.ObjectID) (*domain.CatalogItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (r *catalogRepoMock) ListByOrganization(_ context.Context, orgID primitive.ObjectID) ([]domain.CatalogItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.CatalogItem{}
	for _, item := range r.items {
		if item.OrganizationID == orgID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *catalogRepoMock) Update(_ context.Context, item *domain.CatalogItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.taken(item) {
		return repository.ErrDuplicate
	}
	r.items[item.ID] = *item
	return nil
}

func (r *catalogRepoMock) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *catalogRepoMock) OrganizationsOf(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owners := map[primitive.ObjectID]primitive.ObjectID{}
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			owners[id] = item.OrganizationID
		}
	}
	return owners, nil
}

// --- Directories owned by other modules (clients, employees, exercises, forms) ---

type directoryMock struct {
	mu     sync.Mutex
	owners map[primitive.ObjectID]primitive.ObjectID
}

func newDirectoryMock() *directoryMock {
	return &directoryMock{owners: map[primitive.ObjectID]primitive.ObjectID{}}
}

// add registers a new entity owned by orgID and returns its id.
func (d *directoryMock) add(orgID primitive.ObjectID) primitive.ObjectID {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := primitive.NewObjectID()
	d.owners[id] = orgID
	return id
}

// remove makes id resolve as missing, as a deactivated directory entry does.
func (d *directoryMock) remove(id primitive.ObjectID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.owners, id)
}

func (d *directoryMock) lookup() repository.OwnershipLookup {
	return repository.OwnershipLookupFunc(func(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]primitive.ObjectID, error) {
		d.mu.Lock()
		defer d.mu.Unlock()
		out := map[primitive.ObjectID]primitive.ObjectID{}
		for _, id := range ids {
			if org, ok := d.owners[id]; ok {
				out[id] = org
			}
		}
		return out, nil
	})
}

// --- Object storage ---

type fileStorageMock struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
	listErr error
}

func newFileStorageMock() *fileStorageMock {
	return &fileStorageMock{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fileStorageMock) PutObject(_ context.Context, objectKey, contentType string, body io.Reader) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey] = data
	s.types[objectKey] = contentType
	return nil
}

func (s *fileStorageMock) GeneratePresignedDownloadURL(_ context.Context, objectKey string, expires time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[objectKey]; !ok {
		return "", errors.New("no such key")
	}
	return fmt.Sprintf("https://files.test/%s?expires=%d", objectKey, int(expires.Seconds())), nil
}

func (s *fileStorageMock) ListObjects(_ context.Context, prefix string) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *fileStorageMock) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

func (s *fileStorageMock) DeleteObject(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey)
	return nil
}

// --- Fixture ---

// fixedNow is a Wednesday.
var fixedNow = time.Date(2024, time.January, 17, 10, 0, 0, 0, time.UTC)

type fixture struct {
	org      primitive.ObjectID
	otherOrg primitive.ObjectID
	client   primitive.ObjectID
	author   domain.Author

	sessions      *sessionRepoMock
	exercises     *sessionExerciseRepoMock
	plans         *weeklyPlanRepoMock
	forms         *formStoreMock
	goals         *catalogRepoMock
	muscleGroups  *catalogRepoMock
	equipment     *catalogRepoMock
	clients       *directoryMock
	employees     *directoryMock
	exerciseLib   *directoryMock
	formTemplates *directoryMock
	files         *fileStorageMock

	metrics *metrics.Manager
	refs    *service.ReferenceValidator

	sessionService  service.SessionService
	exerciseService service.SessionExerciseService
	planService     service.WeeklyPlanService
	tracker         service.CompletionTracker
	catalogService  service.CatalogService
}

func newFixture() *fixture {
	f := &fixture{
		org:           primitive.NewObjectID(),
		otherOrg:      primitive.NewObjectID(),
		sessions:      newSessionRepoMock(),
		exercises:     newSessionExerciseRepoMock(),
		plans:         newWeeklyPlanRepoMock(),
		forms:         newFormStoreMock(),
		goals:         newCatalogRepoMock(),
		muscleGroups:  newCatalogRepoMock(),
		equipment:     newCatalogRepoMock(),
		clients:       newDirectoryMock(),
		employees:     newDirectoryMock(),
		exerciseLib:   newDirectoryMock(),
		formTemplates: newDirectoryMock(),
		files:         newFileStorageMock(),
		metrics:       metrics.NewTestManager(),
	}
	employeeID := f.employees.add(f.org)
	f.client = f.clients.add(f.org)
	f.author = domain.Author{Kind: domain.AuthorEmployee, ID: &employeeID}

	f.refs = service.NewReferenceValidator(map[domain.RefKind]repository.OwnershipLookup{
		domain.RefSession:         f.sessions,
		domain.RefSessionExercise: f.exercises,
		domain.RefExercise:        f.exerciseLib.lookup(),
		domain.RefClient:          f.clients.lookup(),
		domain.RefEmployee:        f.employees.lookup(),
		domain.RefFormTemplate:    f.formTemplates.lookup(),
		domain.RefGoal:            f.goals,
		domain.RefMuscleGroup:     f.muscleGroups,
	})

	clock := func() time.Time { return fixedNow }
	f.sessionService = service.NewSessionService(f.sessions, f.exercises, f.refs, clock)
	f.exerciseService = service.NewSessionExerciseService(f.sessions, f.exercises, f.refs)
	f.planService = service.NewWeeklyPlanService(f.plans, f.sessions, f.refs, f.files, f.metrics, service.PlannerOptions{
		Location:        time.UTC,
		ExportURLExpiry: 10 * time.Minute,
		Clock:           clock,
	})
	f.tracker = service.NewCompletionTracker(f.plans, f.forms, f.refs, f.metrics, clock)
	f.catalogService = service.NewCatalogService(map[domain.CatalogKind]repository.CatalogRepository{
		domain.CatalogGoals:        f.goals,
		domain.CatalogMuscleGroups: f.muscleGroups,
		domain.CatalogEquipment:    f.equipment,
	}, clock)
	return f
}

// seedSession stores a session directly in the repository.
func (f *fixture) seedSession(t *testing.T, orgID primitive.ObjectID, sessionType domain.SessionType) *domain.Session {
	t.Helper()
	s := &domain.Session{
		OrganizationID: orgID,
		Type:           sessionType,
		Name:           fmt.Sprintf("%s session", sessionType),
		Goals:          []primitive.ObjectID{},
		MuscleFocus:    []primitive.ObjectID{},
		CreatedBy:      f.author,
	}
	if _, err := f.sessions.Create(context.Background(), s); err != nil {
		t.Fatalf("seeding session: %v", err)
	}
	return s
}

// seedExercise attaches a config directly, bypassing validation.
func (f *fixture) seedExercise(t *testing.T, session *domain.Session, order int, config domain.ExerciseConfig) *domain.SessionExercise {
	t.Helper()
	se := &domain.SessionExercise{
		OrganizationID: session.OrganizationID,
		SessionID:      session.ID,
		ExerciseID:     f.exerciseLib.add(session.OrganizationID),
		Order:          order,
		Config:         domain.TypedConfig{ExerciseConfig: config},
	}
	if _, err := f.exercises.Create(context.Background(), se); err != nil {
		t.Fatalf("seeding session exercise: %v", err)
	}
	return se
}

// seedPlan stores a plan for f.client scheduling sessions on the given days
// of the week of 2024-01-15.
func (f *fixture) seedPlan(t *testing.T, withForm bool, days map[int]primitive.ObjectID) *domain.WeeklyPlan {
	t.Helper()
	plan := &domain.WeeklyPlan{
		OrganizationID: f.org,
		ClientID:       f.client,
		Name:           "Base",
		StartDate:      time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, time.January, 21, 23, 59, 59, 0, time.UTC),
		IsActive:       true,
		CreatedBy:      f.author,
	}
	for day := 0; day < 7; day++ {
		if sessionID, ok := days[day]; ok {
			plan.WeekDays = append(plan.WeekDays, domain.DayPlan{DayOfWeek: day, SessionID: sessionID, CompletedExercises: []primitive.ObjectID{}})
		}
	}
	if withForm {
		form := f.formTemplates.add(f.org)
		plan.FormTemplateID = &form
	}
	if _, err := f.plans.Create(context.Background(), plan); err != nil {
		t.Fatalf("seeding weekly plan: %v", err)
	}
	return plan
}

func strengthConfig() domain.StrengthConfig {
	return domain.StrengthConfig{Sets: []domain.StrengthSet{{RepsMin: 8, RepsMax: 12}}}
}

func intervalConfig() domain.CardioIntervalConfig {
	return domain.CardioIntervalConfig{WorkSeconds: 30, RestSeconds: 15, Rounds: 8}
}
