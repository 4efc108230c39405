package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/tooba16/real-states/internal/models"
	"github.com/tooba16/real-states/internal/utils"
)

// fakeStore is a mutex-guarded in-memory stand-in for the Postgres layer.
// The atomic methods reproduce the row_version checks and transition guards
// of the real repositories so the service retry loops behave the same way.
type fakeStore struct {
	mu sync.Mutex

	units       map[uuid.UUID]*models.Unit
	bookings    map[uuid.UUID]*models.Booking
	transfers   map[uuid.UUID]*models.Transfer
	assignments map[uuid.UUID]*models.InvestorAssignment
	consents    map[uuid.UUID]*models.ConsentRecord
	projects    map[uuid.UUID]*models.Project
	tenants     map[uuid.UUID]*models.Tenant
	phaseBlocks map[uuid.UUID]uuid.UUID // phase block -> project
	investors   map[uuid.UUID]uuid.UUID // investor -> tenant
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		units:       make(map[uuid.UUID]*models.Unit),
		bookings:    make(map[uuid.UUID]*models.Booking),
		transfers:   make(map[uuid.UUID]*models.Transfer),
		assignments: make(map[uuid.UUID]*models.InvestorAssignment),
		consents:    make(map[uuid.UUID]*models.ConsentRecord),
		projects:    make(map[uuid.UUID]*models.Project),
		tenants:     make(map[uuid.UUID]*models.Tenant),
		phaseBlocks: make(map[uuid.UUID]uuid.UUID),
		investors:   make(map[uuid.UUID]uuid.UUID),
	}
}

func cloneUnit(u *models.Unit) *models.Unit {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneBooking(b *models.Booking) *models.Booking {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

func cloneTransfer(t *models.Transfer) *models.Transfer {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

/* ---------- units ---------- */

type fakeUnitRepo struct {
	store *fakeStore

	// beforePlaceHold, when set, runs inside PlaceHoldAtomic ahead of the
	// version check. Tests use it to inject a competing writer.
	beforePlaceHold func()
}

func (r *fakeUnitRepo) Create(ctx context.Context, u *models.Unit) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u.RowVersion = 1
	r.store.units[u.ID] = cloneUnit(u)
	return nil
}

func (r *fakeUnitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return cloneUnit(r.store.units[id]), nil
}

func (r *fakeUnitRepo) ListByProjectID(ctx context.Context, projectID uuid.UUID) ([]*models.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*models.Unit
	for _, u := range r.store.units {
		if u.ProjectID == projectID {
			out = append(out, cloneUnit(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitNumber < out[j].UnitNumber })
	return out, nil
}

func (r *fakeUnitRepo) UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, ok := r.store.units[u.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	u.RowVersion = expected + 1
	r.store.units[u.ID] = cloneUnit(u)
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *fakeUnitRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, ok := r.store.units[id]
	if !ok {
		return utils.ErrNotFound
	}
	c := cloneUnit(cur)
	if err := mutate(c); err != nil {
		return err
	}
	c.RowVersion = cur.RowVersion + 1
	r.store.units[id] = c
	return nil
}

func (r *fakeUnitRepo) lockedUnit(id uuid.UUID, expectedVersion int64, eligible ...models.UnitStatusType) (*models.Unit, error) {
	cur, ok := r.store.units[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	if cur.RowVersion != expectedVersion {
		return nil, utils.ErrRowVersionConflict
	}
	for _, s := range eligible {
		if cur.Status == s {
			return cur, nil
		}
	}
	return nil, utils.ErrInvalidTransition
}

func (r *fakeUnitRepo) PlaceHoldAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, holderID uuid.UUID, expiresAt time.Time) (*models.Unit, error) {
	if r.beforePlaceHold != nil {
		hook := r.beforePlaceHold
		r.beforePlaceHold = nil
		hook()
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, err := r.lockedUnit(id, expectedVersion, models.UnitStatusAvailable)
	if err != nil {
		return nil, err
	}
	cur.Status = models.UnitStatusOnHold
	cur.HolderID = &holderID
	cur.HoldExpiresAt = &expiresAt
	cur.RowVersion++
	return cloneUnit(cur), nil
}

func (r *fakeUnitRepo) ClearHoldAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, actorID uuid.UUID) (*models.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, err := r.lockedUnit(id, expectedVersion, models.UnitStatusOnHold)
	if err != nil {
		return nil, err
	}
	cur.Status = models.UnitStatusAvailable
	cur.HolderID = nil
	cur.HoldExpiresAt = nil
	cur.UpdatedByID = &actorID
	cur.RowVersion++
	return cloneUnit(cur), nil
}

func (r *fakeUnitRepo) ExtendHoldAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, newExpiry time.Time, actorID uuid.UUID) (*models.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, err := r.lockedUnit(id, expectedVersion, models.UnitStatusOnHold)
	if err != nil {
		return nil, err
	}
	cur.HoldExpiresAt = &newExpiry
	cur.UpdatedByID = &actorID
	cur.RowVersion++
	return cloneUnit(cur), nil
}

func (r *fakeUnitRepo) DeactivateAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, actorID uuid.UUID) (*models.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, err := r.lockedUnit(id, expectedVersion, models.UnitStatusAvailable, models.UnitStatusBooked)
	if err != nil {
		return nil, err
	}
	cur.Status = models.UnitStatusInactive
	cur.HolderID = nil
	cur.HoldExpiresAt = nil
	cur.UpdatedByID = &actorID
	cur.RowVersion++
	return cloneUnit(cur), nil
}

func (r *fakeUnitRepo) ReactivateAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, actorID uuid.UUID) (*models.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, err := r.lockedUnit(id, expectedVersion, models.UnitStatusInactive)
	if err != nil {
		return nil, err
	}
	cur.Status = models.UnitStatusAvailable
	cur.UpdatedByID = &actorID
	cur.RowVersion++
	return cloneUnit(cur), nil
}

func (r *fakeUnitRepo) ExpireHolds(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var ids []uuid.UUID
	for _, u := range r.store.units {
		if u.HoldExpired(now) {
			u.Status = models.UnitStatusAvailable
			u.HolderID = nil
			u.HoldExpiresAt = nil
			u.RowVersion++
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

/* ---------- bookings ---------- */

type fakeBookingRepo struct {
	store *fakeStore
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return cloneBooking(r.store.bookings[id]), nil
}

func (r *fakeBookingRepo) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.bookings {
		if b.Reference == reference {
			return cloneBooking(b), nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) ListByUnitID(ctx context.Context, unitID uuid.UUID) ([]*models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*models.Booking
	for _, b := range r.store.bookings {
		if b.UnitID == unitID {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookedAt.After(out[j].BookedAt) })
	return out, nil
}

func (r *fakeBookingRepo) CountActiveByUnit(ctx context.Context, unitID uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n := 0
	for _, b := range r.store.bookings {
		if b.UnitID == unitID && b.Status != models.BookingStatusCancelled {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) CreateForUnit(ctx context.Context, b *models.Booking, expectedUnitVersion int64, now time.Time) (*models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	unit, ok := r.store.units[b.UnitID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	if unit.RowVersion != expectedUnitVersion {
		return nil, utils.ErrRowVersionConflict
	}
	if unit.Status != models.UnitStatusAvailable && unit.Status != models.UnitStatusOnHold {
		return nil, utils.ErrInvalidTransition
	}
	if unit.HoldExpired(now) {
		// Commit the revert even though the booking fails.
		unit.Status = models.UnitStatusAvailable
		unit.HolderID = nil
		unit.HoldExpiresAt = nil
		unit.RowVersion++
		return nil, utils.ErrHoldExpired
	}
	for _, existing := range r.store.bookings {
		if existing.UnitID == b.UnitID && existing.Status != models.BookingStatusCancelled {
			return nil, &utils.ConflictError{EntityID: b.UnitID, Detail: "active booking exists"}
		}
	}

	b.RowVersion = 1
	r.store.bookings[b.ID] = cloneBooking(b)

	holder := b.CreatedByID
	unit.Status = models.UnitStatusBooked
	unit.HolderID = &holder
	unit.HoldExpiresAt = nil
	unit.RowVersion++
	return cloneBooking(b), nil
}

func (r *fakeBookingRepo) CancelAtomic(ctx context.Context, bookingID uuid.UUID, expectedVersion int64, reason string, actorID uuid.UUID, now time.Time) (*models.Booking, *models.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.bookings[bookingID]
	if !ok {
		return nil, nil, utils.ErrNotFound
	}
	if b.RowVersion != expectedVersion {
		return nil, nil, utils.ErrRowVersionConflict
	}
	if b.Status == models.BookingStatusCancelled {
		return nil, nil, utils.ErrAlreadyInState
	}

	b.Status = models.BookingStatusCancelled
	b.CancellationReason = reason
	b.CancelledByID = &actorID
	b.CancelledAt = &now
	b.RowVersion++

	unit := r.store.units[b.UnitID]
	if unit != nil {
		unit.Status = models.UnitStatusAvailable
		unit.HolderID = nil
		unit.HoldExpiresAt = nil
		unit.RowVersion++
	}
	return cloneBooking(b), cloneUnit(unit), nil
}

func (r *fakeBookingRepo) DeleteAtomic(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) (*models.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.bookings[bookingID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	if b.Status != models.BookingStatusConfirmed {
		return nil, utils.ErrInvalidTransition
	}
	unit := r.store.units[b.UnitID]
	if unit == nil {
		return nil, utils.ErrNotFound
	}
	if unit.Status == models.UnitStatusSold {
		return nil, utils.ErrInvalidTransition
	}

	delete(r.store.bookings, bookingID)
	unit.Status = models.UnitStatusAvailable
	unit.HolderID = nil
	unit.HoldExpiresAt = nil
	unit.RowVersion++
	return cloneUnit(unit), nil
}

/* ---------- transfers ---------- */

type fakeTransferRepo struct {
	store *fakeStore
}

func (r *fakeTransferRepo) Create(ctx context.Context, t *models.Transfer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t.RowVersion = 1
	r.store.transfers[t.ID] = cloneTransfer(t)
	return nil
}

func (r *fakeTransferRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return cloneTransfer(r.store.transfers[id]), nil
}

func (r *fakeTransferRepo) ListByUnitID(ctx context.Context, unitID uuid.UUID) ([]*models.Transfer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*models.Transfer
	for _, t := range r.store.transfers {
		if t.UnitID == unitID {
			out = append(out, cloneTransfer(t))
		}
	}
	return out, nil
}

func (r *fakeTransferRepo) UpdateIfVersion(ctx context.Context, t *models.Transfer, expected int64) (pgconn.CommandTag, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, ok := r.store.transfers[t.ID]
	if !ok || cur.RowVersion != expected || cur.Status != models.TransferStatusPending {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	t.RowVersion = expected + 1
	r.store.transfers[t.ID] = cloneTransfer(t)
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *fakeTransferRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Transfer) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, ok := r.store.transfers[id]
	if !ok {
		return utils.ErrNotFound
	}
	c := cloneTransfer(cur)
	if err := mutate(c); err != nil {
		return err
	}
	c.RowVersion = cur.RowVersion + 1
	r.store.transfers[id] = c
	return nil
}

func (r *fakeTransferRepo) locked(id uuid.UUID, expectedVersion int64, status models.TransferStatusType) (*models.Transfer, error) {
	cur, ok := r.store.transfers[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	if cur.RowVersion != expectedVersion {
		return nil, utils.ErrRowVersionConflict
	}
	if cur.Status != status {
		return nil, utils.ErrInvalidTransition
	}
	return cur, nil
}

func (r *fakeTransferRepo) ApproveAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, approverID uuid.UUID) (*models.Transfer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, err := r.locked(id, expectedVersion, models.TransferStatusPending)
	if err != nil {
		return nil, err
	}
	cur.Status = models.TransferStatusApproved
	cur.ApprovedByID = &approverID
	cur.RowVersion++
	if b := r.store.bookings[cur.BookingID]; b != nil {
		b.CustomerID = cur.ToCustomerID
		b.RowVersion++
	}
	return cloneTransfer(cur), nil
}

func (r *fakeTransferRepo) CompleteAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, actorID uuid.UUID, now time.Time) (*models.Transfer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, err := r.locked(id, expectedVersion, models.TransferStatusApproved)
	if err != nil {
		return nil, err
	}
	cur.Status = models.TransferStatusCompleted
	cur.TransferDate = &now
	cur.UpdatedByID = &actorID
	cur.RowVersion++
	if u := r.store.units[cur.UnitID]; u != nil && u.Status == models.UnitStatusBooked {
		u.Status = models.UnitStatusSold
		u.HolderID = nil
		u.HoldExpiresAt = nil
		u.RowVersion++
	}
	return cloneTransfer(cur), nil
}

func (r *fakeTransferRepo) RejectAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64, actorID uuid.UUID) (*models.Transfer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, err := r.locked(id, expectedVersion, models.TransferStatusPending)
	if err != nil {
		return nil, err
	}
	cur.Status = models.TransferStatusRejected
	cur.UpdatedByID = &actorID
	cur.RowVersion++
	return cloneTransfer(cur), nil
}

func (r *fakeTransferRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, ok := r.store.transfers[id]
	if !ok {
		return utils.ErrNotFound
	}
	if cur.Status != models.TransferStatusPending {
		return utils.ErrInvalidTransition
	}
	delete(r.store.transfers, id)
	return nil
}

/* ---------- assignments and consent ---------- */

type fakeAssignmentRepo struct {
	store *fakeStore
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, a *models.InvestorAssignment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a.RowVersion = 1
	c := *a
	r.store.assignments[a.ID] = &c
	return nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InvestorAssignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.assignments[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r *fakeAssignmentRepo) ListActiveByUnit(ctx context.Context, unitID uuid.UUID) ([]*models.InvestorAssignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*models.InvestorAssignment
	for _, a := range r.store.assignments {
		if a.UnitID == unitID && a.Status == models.AssignmentStatusActive {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) Deactivate(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.assignments[id]
	if !ok {
		return utils.ErrNotFound
	}
	a.Status = models.AssignmentStatusInactive
	a.UpdatedByID = &actorID
	a.RowVersion++
	return nil
}

func (r *fakeAssignmentRepo) CreateConsent(ctx context.Context, c *models.ConsentRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cc := *c
	r.store.consents[c.ID] = &cc
	return nil
}

func (r *fakeAssignmentRepo) GetActiveConsent(ctx context.Context, assignmentID uuid.UUID) (*models.ConsentRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var latest *models.ConsentRecord
	for _, c := range r.store.consents {
		if c.AssignmentID != assignmentID || c.RevokedAt != nil {
			continue
		}
		if latest == nil || c.GrantedAt.After(latest.GrantedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := *latest
	return &c, nil
}

func (r *fakeAssignmentRepo) RevokeConsent(ctx context.Context, recordID uuid.UUID, now time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.consents[recordID]
	if !ok {
		return utils.ErrNotFound
	}
	c.RevokedAt = &now
	return nil
}

/* ---------- projects and tenants ---------- */

type fakeProjectRepo struct {
	store *fakeStore
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.projects[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *fakeProjectRepo) CountActiveByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.countActiveLocked(tenantID), nil
}

func (r *fakeProjectRepo) countActiveLocked(tenantID uuid.UUID) int {
	n := 0
	for _, p := range r.store.projects {
		if p.TenantID == tenantID && p.Status != models.ProjectStatusCancelled {
			n++
		}
	}
	return n
}

func (r *fakeProjectRepo) CreateWithQuota(ctx context.Context, p *models.Project, maxProjects int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tenants[p.TenantID]; !ok {
		return utils.ErrNotFound
	}
	if r.countActiveLocked(p.TenantID) >= maxProjects {
		return utils.ErrQuotaExceeded
	}
	p.RowVersion = 1
	c := *p
	r.store.projects[p.ID] = &c
	return nil
}

func (r *fakeProjectRepo) PhaseBlockProject(ctx context.Context, phaseBlockID uuid.UUID) (uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	projectID, ok := r.store.phaseBlocks[phaseBlockID]
	if !ok {
		return uuid.Nil, utils.ErrNotFound
	}
	return projectID, nil
}

func (r *fakeProjectRepo) InvestorTenant(ctx context.Context, investorID uuid.UUID) (uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	tenantID, ok := r.store.investors[investorID]
	if !ok {
		return uuid.Nil, utils.ErrNotFound
	}
	return tenantID, nil
}

type fakeTenantRepo struct {
	store *fakeStore
}

func (r *fakeTenantRepo) Create(ctx context.Context, t *models.Tenant) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *t
	r.store.tenants[t.ID] = &c
	return nil
}

func (r *fakeTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.tenants[id]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

/* ---------- fixture helpers ---------- */

type fixture struct {
	store *fakeStore

	units     *fakeUnitRepo
	bookings  *fakeBookingRepo
	transfers *fakeTransferRepo
	assigns   *fakeAssignmentRepo
	projects  *fakeProjectRepo
	tenants   *fakeTenantRepo

	tenantID  uuid.UUID
	projectID uuid.UUID

	admin models.Actor
	agent models.Actor
}

func newFixture() *fixture {
	store := newFakeStore()
	f := &fixture{
		store:     store,
		units:     &fakeUnitRepo{store: store},
		bookings:  &fakeBookingRepo{store: store},
		transfers: &fakeTransferRepo{store: store},
		assigns:   &fakeAssignmentRepo{store: store},
		projects:  &fakeProjectRepo{store: store},
		tenants:   &fakeTenantRepo{store: store},
		tenantID:  uuid.New(),
		projectID: uuid.New(),
	}

	store.tenants[f.tenantID] = &models.Tenant{ID: f.tenantID, Name: "Builder Co", MaxProjects: 10}
	store.projects[f.projectID] = &models.Project{
		ID:       f.projectID,
		TenantID: f.tenantID,
		Name:     "Gardens Phase I",
		Status:   models.ProjectStatusActive,
	}

	f.admin = models.Actor{ID: uuid.New(), Role: models.RoleAdmin, TenantID: f.tenantID}
	f.agent = models.Actor{ID: uuid.New(), Role: models.RoleSalesAgent, TenantID: f.tenantID}
	return f
}

func (f *fixture) addUnit(status models.UnitStatusType, price float64) *models.Unit {
	u := &models.Unit{
		ID:         uuid.New(),
		ProjectID:  f.projectID,
		UnitNumber: "U-" + uuid.NewString()[:4],
		UnitType:   models.UnitTypeFlat,
		Price:      price,
		Status:     status,
	}
	u.RowVersion = 1
	f.store.units[u.ID] = u
	return u
}

func (f *fixture) unit(id uuid.UUID) *models.Unit {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return cloneUnit(f.store.units[id])
}
