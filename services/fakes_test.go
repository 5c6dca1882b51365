package services

import (
	"context"
	"io"
	"sort"

	"github.com/google/uuid"

	"github.com/racedaynz/jockeyfinder/models"
	"github.com/racedaynz/jockeyfinder/repositories"
	"github.com/racedaynz/jockeyfinder/storage"
)

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*models.Profile
}

func newFakeProfileRepo(profiles ...*models.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: make(map[uuid.UUID]*models.Profile)}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *models.Profile) error {
	for _, p := range r.profiles {
		if p.Email == profile.Email {
			return repositories.ErrProfileEmailConflict
		}
	}
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, p := range r.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (r *fakeProfileRepo) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Profile, error) {
	out := make(map[uuid.UUID]*models.Profile)
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.ProfileStatus) error {
	p, ok := r.profiles[id]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.Status = status
	return nil
}

func (r *fakeProfileRepo) ListByStatus(_ context.Context, status models.ProfileStatus) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, p := range r.profiles {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeMeetingRepo struct {
	meetings map[int]*models.Meeting
	upserts  [][]*models.Meeting
	byDayID  map[int64]*models.Meeting
}

func newFakeMeetingRepo(meetings ...*models.Meeting) *fakeMeetingRepo {
	r := &fakeMeetingRepo{
		meetings: make(map[int]*models.Meeting),
		byDayID:  make(map[int64]*models.Meeting),
	}
	for _, m := range meetings {
		r.meetings[m.ID] = m
	}
	return r
}

func (r *fakeMeetingRepo) GetByID(_ context.Context, id int) (*models.Meeting, error) {
	m, ok := r.meetings[id]
	if !ok {
		return nil, repositories.ErrMeetingNotFound
	}
	return m, nil
}

func (r *fakeMeetingRepo) GetByIDs(_ context.Context, ids []int) (map[int]*models.Meeting, error) {
	out := make(map[int]*models.Meeting)
	for _, id := range ids {
		if m, ok := r.meetings[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (r *fakeMeetingRepo) ListByDateRange(_ context.Context, from, to string) ([]*models.Meeting, error) {
	var out []*models.Meeting
	for _, m := range r.meetings {
		if m.MeetingDate >= from && m.MeetingDate <= to {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MeetingDate < out[j].MeetingDate })
	return out, nil
}

func (r *fakeMeetingRepo) UpsertBatch(_ context.Context, meetings []*models.Meeting) (int, error) {
	r.upserts = append(r.upserts, meetings)
	for _, m := range meetings {
		if m.NZTRDayID != nil {
			r.byDayID[*m.NZTRDayID] = m
		}
	}
	return len(meetings), nil
}

type attendanceKey struct {
	meetingID int
	userID    uuid.UUID
}

type fakeAttendanceRepo struct {
	records map[attendanceKey]*models.AttendanceRecord
	// lastExec records the executor passed to the most recent Upsert, so a
	// test can assert the booked transition rode the caller's transaction.
	lastExec  repositories.SQLExecutor
	nextID    int
	upsertErr error
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[attendanceKey]*models.AttendanceRecord)}
}

func (r *fakeAttendanceRepo) Upsert(_ context.Context, exec repositories.SQLExecutor, record *models.AttendanceRecord) error {
	r.lastExec = exec
	if r.upsertErr != nil {
		return r.upsertErr
	}
	key := attendanceKey{record.MeetingID, record.UserID}
	if existing, ok := r.records[key]; ok {
		record.ID = existing.ID
	} else {
		r.nextID++
		record.ID = r.nextID
	}
	r.records[key] = record
	return nil
}

func (r *fakeAttendanceRepo) FindByMeetingAndUser(_ context.Context, meetingID int, userID uuid.UUID) (*models.AttendanceRecord, error) {
	rec, ok := r.records[attendanceKey{meetingID, userID}]
	if !ok {
		return nil, repositories.ErrAttendanceNotFound
	}
	return rec, nil
}

func (r *fakeAttendanceRepo) ListAttendingByMeeting(_ context.Context, meetingID int) ([]*models.AttendanceRecord, error) {
	var out []*models.AttendanceRecord
	for _, rec := range r.records {
		if rec.MeetingID == meetingID && rec.Attending {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAttendanceRepo) CountAttendingByMeetings(_ context.Context, meetingIDs []int) (map[int]int, error) {
	out := make(map[int]int)
	for _, id := range meetingIDs {
		for _, rec := range r.records {
			if rec.MeetingID == id && rec.Attending {
				out[id]++
			}
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) Delete(_ context.Context, meetingID int, userID uuid.UUID) error {
	key := attendanceKey{meetingID, userID}
	if _, ok := r.records[key]; !ok {
		return repositories.ErrAttendanceNotFound
	}
	delete(r.records, key)
	return nil
}

type fakeRequestRepo struct {
	requests map[int]*models.RideRequest
	lastExec repositories.SQLExecutor
	nextID   int
}

func newFakeRequestRepo(requests ...*models.RideRequest) *fakeRequestRepo {
	r := &fakeRequestRepo{requests: make(map[int]*models.RideRequest)}
	for _, req := range requests {
		r.requests[req.ID] = req
		if req.ID > r.nextID {
			r.nextID = req.ID
		}
	}
	return r
}

func (r *fakeRequestRepo) Create(_ context.Context, req *models.RideRequest) error {
	r.nextID++
	req.ID = r.nextID
	r.requests[req.ID] = req
	return nil
}

func (r *fakeRequestRepo) FindByID(_ context.Context, id int) (*models.RideRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, repositories.ErrRequestNotFound
	}
	return req, nil
}

func (r *fakeRequestRepo) UpdateStatusIfRequested(_ context.Context, exec repositories.SQLExecutor, id int, status models.RideRequestStatus) error {
	r.lastExec = exec
	req, ok := r.requests[id]
	if !ok || req.Status != models.RequestStatusRequested {
		return repositories.ErrRequestNotRequested
	}
	req.Status = status
	return nil
}

func (r *fakeRequestRepo) listWhere(match func(*models.RideRequest) bool) []*models.RideRequest {
	var out []*models.RideRequest
	for _, req := range r.requests {
		if match(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *fakeRequestRepo) ListByJockey(_ context.Context, jockeyID uuid.UUID) ([]*models.RideRequest, error) {
	return r.listWhere(func(req *models.RideRequest) bool { return req.JockeyID == jockeyID }), nil
}

func (r *fakeRequestRepo) ListByTrainer(_ context.Context, trainerID uuid.UUID) ([]*models.RideRequest, error) {
	return r.listWhere(func(req *models.RideRequest) bool { return req.TrainerID == trainerID }), nil
}

func (r *fakeRequestRepo) ListByTrainerAndMeeting(_ context.Context, trainerID uuid.UUID, meetingID int) ([]*models.RideRequest, error) {
	return r.listWhere(func(req *models.RideRequest) bool {
		return req.TrainerID == trainerID && req.MeetingID == meetingID
	}), nil
}

func (r *fakeRequestRepo) ListAll(_ context.Context) ([]*models.RideRequest, error) {
	return r.listWhere(func(*models.RideRequest) bool { return true }), nil
}

type fakeDocumentRepo struct {
	docs   map[int]*models.VerificationDocument
	nextID int
}

func newFakeDocumentRepo(docs ...*models.VerificationDocument) *fakeDocumentRepo {
	r := &fakeDocumentRepo{docs: make(map[int]*models.VerificationDocument)}
	for _, d := range docs {
		r.docs[d.ID] = d
		if d.ID > r.nextID {
			r.nextID = d.ID
		}
	}
	return r
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *models.VerificationDocument) error {
	r.nextID++
	doc.ID = r.nextID
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeDocumentRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.VerificationDocument, error) {
	var out []*models.VerificationDocument
	for _, d := range r.docs {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) ListByStatus(_ context.Context, status models.DocumentStatus) ([]*models.VerificationDocument, error) {
	var out []*models.VerificationDocument
	for _, d := range r.docs {
		if d.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) UpdateStatus(_ context.Context, id int, status models.DocumentStatus) error {
	d, ok := r.docs[id]
	if !ok {
		return repositories.ErrDocumentNotFound
	}
	d.Status = status
	return nil
}

type fakeUploader struct {
	uploads   []string
	deletes   []string
	uploadErr error
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (*storage.UploadResult, error) {
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	u.uploads = append(u.uploads, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.example/" + key}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.deletes = append(u.deletes, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return "https://cdn.example/" + key
}

func approvedTrainer() *models.Profile {
	return &models.Profile{
		ID:       uuid.New(),
		FullName: "Shane Kennedy",
		Role:     models.RoleTrainer,
		Status:   models.StatusApproved,
		Email:    "shane@stable.example",
	}
}

func approvedJockey() *models.Profile {
	return &models.Profile{
		ID:       uuid.New(),
		FullName: "Lisa Marsh",
		Role:     models.RoleJockey,
		Status:   models.StatusApproved,
		Email:    "lisa@rides.example",
	}
}

func viewOnlyOwner() *models.Profile {
	return &models.Profile{
		ID:       uuid.New(),
		FullName: "Margaret Woodley",
		Role:     models.RoleOwner,
		Status:   models.StatusViewOnly,
		Email:    "margaret@owners.example",
	}
}

func teRapaMeeting() *models.Meeting {
	dayID := int64(4821)
	club := "Waikato RC"
	return &models.Meeting{
		ID:          1,
		MeetingDate: "2026-01-01",
		Track:       "Te Rapa",
		Club:        &club,
		NZTRDayID:   &dayID,
		Source:      "loveracing",
	}
}
