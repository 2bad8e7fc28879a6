package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/talentexcel/talentexcel-api/internal/data"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
)

// In-memory repositories backing the service tests. They honor the same
// sentinels as the SQL implementations in internal/data.

type memJobRepo struct {
	mu   sync.Mutex
	seq  int
	jobs map[string]*model.JobListing
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[string]*model.JobListing)}
}

func (r *memJobRepo) Create(
	_ context.Context,
	employerID string,
	req *model.CreateJobRequest,
) (*model.JobListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	status := model.JobStatusDraft
	if req.Publish {
		status = model.JobStatusPublished
	}
	now := time.Now().UTC()
	job := &model.JobListing{
		ID:          fmt.Sprintf("job-%d", r.seq),
		EmployerID:  employerID,
		Title:       req.Title,
		Company:     req.Company,
		Description: req.Description,
		Location:    req.Location,
		Type:        req.Type,
		Remote:      req.Remote,
		SalaryRange: req.SalaryRange,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.jobs[job.ID] = job
	return cloneJob(job), nil
}

func (r *memJobRepo) GetByID(_ context.Context, id string) (*model.JobListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, data.ErrJobNotFound
	}
	return cloneJob(job), nil
}

func (r *memJobRepo) List(_ context.Context, opts model.JobListOptions) ([]*model.JobListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.JobListing
	for _, job := range r.jobs {
		if opts.Status != nil && job.Status != *opts.Status {
			continue
		}
		out = append(out, cloneJob(job))
	}
	sortJobs(out)
	return out, nil
}

func (r *memJobRepo) Search(
	_ context.Context,
	filter model.JobSearchFilter,
	_ model.JobListOptions,
) ([]*model.JobListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.JobListing
	for _, job := range r.jobs {
		if job.Status != model.JobStatusPublished {
			continue
		}
		if filter.Type != "" && job.Type != filter.Type {
			continue
		}
		if filter.Remote != nil && job.Remote != *filter.Remote {
			continue
		}
		out = append(out, cloneJob(job))
	}
	sortJobs(out)
	return out, nil
}

func (r *memJobRepo) ListByEmployer(
	_ context.Context,
	employerID string,
	_ model.JobListOptions,
) ([]*model.JobListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.JobListing
	for _, job := range r.jobs {
		if job.EmployerID == employerID {
			out = append(out, cloneJob(job))
		}
	}
	sortJobs(out)
	return out, nil
}

func (r *memJobRepo) Update(
	_ context.Context,
	id string,
	req model.UpdateJobRequest,
) (*model.JobListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, data.ErrJobNotFound
	}
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Company != nil {
		job.Company = *req.Company
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.Type != nil {
		job.Type = *req.Type
	}
	if req.Remote != nil {
		job.Remote = *req.Remote
	}
	if req.SalaryRange != nil {
		job.SalaryRange = *req.SalaryRange
	}
	if req.Status != nil {
		job.Status = *req.Status
	}
	job.UpdatedAt = time.Now().UTC()
	return cloneJob(job), nil
}

func (r *memJobRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return false, nil
	}
	delete(r.jobs, id)
	return true, nil
}

func cloneJob(j *model.JobListing) *model.JobListing {
	c := *j
	return &c
}

func sortJobs(jobs []*model.JobListing) {
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].ID < jobs[k].ID })
}

type memApplicationRepo struct {
	mu   sync.Mutex
	seq  int
	apps map[string]*model.Application
	jobs *memJobRepo
}

func newMemApplicationRepo(jobs *memJobRepo) *memApplicationRepo {
	return &memApplicationRepo{apps: make(map[string]*model.Application), jobs: jobs}
}

func (r *memApplicationRepo) Create(
	_ context.Context,
	studentID string,
	req *model.CreateApplicationRequest,
) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.StudentID == studentID && app.JobID == req.JobID {
			return nil, data.ErrAlreadyApplied
		}
	}
	r.seq++
	now := time.Now().UTC()
	app := &model.Application{
		ID:          fmt.Sprintf("app-%d", r.seq),
		JobID:       req.JobID,
		StudentID:   studentID,
		CoverLetter: req.CoverLetter,
		ResumeURL:   req.ResumeURL,
		Status:      model.ApplicationSubmitted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.apps[app.ID] = app
	return cloneApp(app), nil
}

func (r *memApplicationRepo) GetByID(_ context.Context, id string) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, data.ErrApplicationNotFound
	}
	return cloneApp(app), nil
}

func (r *memApplicationRepo) ListByStudent(ctx context.Context, studentID string) ([]*model.ApplicationWithJob, error) {
	r.mu.Lock()
	apps := make([]*model.Application, 0, len(r.apps))
	for _, app := range r.apps {
		if app.StudentID == studentID {
			apps = append(apps, cloneApp(app))
		}
	}
	r.mu.Unlock()
	return r.join(ctx, apps)
}

func (r *memApplicationRepo) ListByEmployer(ctx context.Context, employerID string) ([]*model.ApplicationWithJob, error) {
	r.mu.Lock()
	apps := make([]*model.Application, 0, len(r.apps))
	for _, app := range r.apps {
		apps = append(apps, cloneApp(app))
	}
	r.mu.Unlock()

	var out []*model.ApplicationWithJob
	for _, app := range apps {
		job, err := r.jobs.GetByID(ctx, app.JobID)
		if err != nil {
			continue
		}
		if job.EmployerID != employerID {
			continue
		}
		out = append(out, &model.ApplicationWithJob{Application: *app, JobTitle: job.Title, Company: job.Company})
	}
	return out, nil
}

func (r *memApplicationRepo) ListByJob(_ context.Context, jobID string) ([]*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Application
	for _, app := range r.apps {
		if app.JobID == jobID {
			out = append(out, cloneApp(app))
		}
	}
	return out, nil
}

func (r *memApplicationRepo) UpdateStatus(
	_ context.Context,
	id string,
	status model.ApplicationStatus,
) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, data.ErrApplicationNotFound
	}
	app.Status = status
	app.UpdatedAt = time.Now().UTC()
	return cloneApp(app), nil
}

func (r *memApplicationRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[id]; !ok {
		return false, nil
	}
	delete(r.apps, id)
	return true, nil
}

func (r *memApplicationRepo) join(ctx context.Context, apps []*model.Application) ([]*model.ApplicationWithJob, error) {
	var out []*model.ApplicationWithJob
	for _, app := range apps {
		row := &model.ApplicationWithJob{Application: *app}
		if job, err := r.jobs.GetByID(ctx, app.JobID); err == nil {
			row.JobTitle = job.Title
			row.Company = job.Company
		}
		out = append(out, row)
	}
	return out, nil
}

func cloneApp(a *model.Application) *model.Application {
	c := *a
	return &c
}

type memSavedJobRepo struct {
	mu    sync.Mutex
	seq   int
	saved map[string]*model.SavedJob // key studentID+"/"+jobID
	jobs  *memJobRepo
}

func newMemSavedJobRepo(jobs *memJobRepo) *memSavedJobRepo {
	return &memSavedJobRepo{saved: make(map[string]*model.SavedJob), jobs: jobs}
}

func savedKey(studentID, jobID string) string { return studentID + "/" + jobID }

func (r *memSavedJobRepo) Save(_ context.Context, studentID, jobID string) (*model.SavedJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := savedKey(studentID, jobID)
	if sj, ok := r.saved[key]; ok {
		c := *sj
		return &c, nil
	}
	r.seq++
	sj := &model.SavedJob{
		ID:        fmt.Sprintf("saved-%d", r.seq),
		StudentID: studentID,
		JobID:     jobID,
		CreatedAt: time.Now().UTC(),
	}
	r.saved[key] = sj
	c := *sj
	return &c, nil
}

func (r *memSavedJobRepo) Unsave(_ context.Context, studentID, jobID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := savedKey(studentID, jobID)
	if _, ok := r.saved[key]; !ok {
		return false, nil
	}
	delete(r.saved, key)
	return true, nil
}

func (r *memSavedJobRepo) ListByStudent(ctx context.Context, studentID string) ([]*model.SavedJobWithListing, error) {
	r.mu.Lock()
	var bookmarks []*model.SavedJob
	for _, sj := range r.saved {
		if sj.StudentID == studentID {
			c := *sj
			bookmarks = append(bookmarks, &c)
		}
	}
	r.mu.Unlock()

	var out []*model.SavedJobWithListing
	for _, sj := range bookmarks {
		row := &model.SavedJobWithListing{SavedJob: *sj}
		if job, err := r.jobs.GetByID(ctx, sj.JobID); err == nil {
			row.JobTitle = job.Title
			row.Company = job.Company
			row.Location = job.Location
			row.Status = job.Status
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *memSavedJobRepo) IsSaved(_ context.Context, studentID, jobID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.saved[savedKey(studentID, jobID)]
	return ok, nil
}

type memWebhookRepo struct {
	mu    sync.Mutex
	seq   int
	hooks map[string]*model.ApplicationWebhook
}

func newMemWebhookRepo() *memWebhookRepo {
	return &memWebhookRepo{hooks: make(map[string]*model.ApplicationWebhook)}
}

func (r *memWebhookRepo) Create(
	_ context.Context,
	employerID string,
	req *model.CreateWebhookRequest,
) (*model.ApplicationWebhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	now := time.Now().UTC()
	hook := &model.ApplicationWebhook{
		ID:         fmt.Sprintf("hook-%d", r.seq),
		EmployerID: employerID,
		URL:        req.URL,
		Filter:     req.Filter,
		Enabled:    enabled,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.hooks[hook.ID] = hook
	return cloneHook(hook), nil
}

func (r *memWebhookRepo) GetByID(_ context.Context, id string) (*model.ApplicationWebhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hook, ok := r.hooks[id]
	if !ok {
		return nil, data.ErrWebhookNotFound
	}
	return cloneHook(hook), nil
}

func (r *memWebhookRepo) ListByEmployer(_ context.Context, employerID string) ([]*model.ApplicationWebhook, error) {
	return r.list(employerID, false), nil
}

func (r *memWebhookRepo) ListEnabledByEmployer(_ context.Context, employerID string) ([]*model.ApplicationWebhook, error) {
	return r.list(employerID, true), nil
}

func (r *memWebhookRepo) list(employerID string, enabledOnly bool) []*model.ApplicationWebhook {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ApplicationWebhook
	for _, hook := range r.hooks {
		if hook.EmployerID != employerID {
			continue
		}
		if enabledOnly && !hook.Enabled {
			continue
		}
		out = append(out, cloneHook(hook))
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

func (r *memWebhookRepo) Update(
	_ context.Context,
	id string,
	req model.UpdateWebhookRequest,
) (*model.ApplicationWebhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hook, ok := r.hooks[id]
	if !ok {
		return nil, data.ErrWebhookNotFound
	}
	if req.URL != nil {
		hook.URL = *req.URL
	}
	if req.Filter != nil {
		hook.Filter = *req.Filter
	}
	if req.Enabled != nil {
		hook.Enabled = *req.Enabled
	}
	hook.UpdatedAt = time.Now().UTC()
	return cloneHook(hook), nil
}

func (r *memWebhookRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hooks[id]; !ok {
		return false, nil
	}
	delete(r.hooks, id)
	return true, nil
}

func cloneHook(h *model.ApplicationWebhook) *model.ApplicationWebhook {
	c := *h
	return &c
}

type memOnboardingRepo struct {
	mu           sync.Mutex
	seq          int
	interests    map[string]*model.UserInterests
	achievements map[string]*model.Achievement
}

func newMemOnboardingRepo() *memOnboardingRepo {
	return &memOnboardingRepo{
		interests:    make(map[string]*model.UserInterests),
		achievements: make(map[string]*model.Achievement),
	}
}

func (r *memOnboardingRepo) UpsertInterests(
	_ context.Context,
	userID string,
	req *model.SaveInterestsRequest,
) (*model.UserInterests, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ui := &model.UserInterests{
		UserID:         userID,
		Interests:      append([]string(nil), req.Interests...),
		TechStack:      append([]string(nil), req.TechStack...),
		RolePreference: req.RolePreference,
		UpdatedAt:      time.Now().UTC(),
	}
	r.interests[userID] = ui
	c := *ui
	return &c, nil
}

func (r *memOnboardingRepo) GetInterests(_ context.Context, userID string) (*model.UserInterests, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ui, ok := r.interests[userID]
	if !ok {
		return nil, nil
	}
	c := *ui
	return &c, nil
}

func (r *memOnboardingRepo) AddAchievement(
	_ context.Context,
	userID string,
	req *model.CreateAchievementRequest,
) (*model.Achievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ach := &model.Achievement{
		ID:          fmt.Sprintf("ach-%d", r.seq),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	r.achievements[ach.ID] = ach
	c := *ach
	return &c, nil
}

func (r *memOnboardingRepo) ListAchievements(_ context.Context, userID string) ([]*model.Achievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Achievement
	for _, ach := range r.achievements {
		if ach.UserID == userID {
			c := *ach
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (r *memOnboardingRepo) DeleteAchievement(_ context.Context, userID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ach, ok := r.achievements[id]
	if !ok || ach.UserID != userID {
		return false, nil
	}
	delete(r.achievements, id)
	return true, nil
}

type memContactRepo struct {
	mu   sync.Mutex
	seq  int
	msgs map[string]*model.ContactMessage
}

func newMemContactRepo() *memContactRepo {
	return &memContactRepo{msgs: make(map[string]*model.ContactMessage)}
}

func (r *memContactRepo) Create(
	_ context.Context,
	req *model.CreateContactMessageRequest,
) (*model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	msg := &model.ContactMessage{
		ID:        fmt.Sprintf("msg-%d", r.seq),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	r.msgs[msg.ID] = msg
	c := *msg
	return &c, nil
}

func (r *memContactRepo) List(_ context.Context, _, _ int) ([]*model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ContactMessage
	for _, msg := range r.msgs {
		c := *msg
		out = append(out, &c)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (r *memContactRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.msgs[id]; !ok {
		return false, nil
	}
	delete(r.msgs, id)
	return true, nil
}

type memCollegeDomainRepo struct {
	mu      sync.Mutex
	seq     int
	entries map[string]*model.CollegeDomain
}

func newMemCollegeDomainRepo() *memCollegeDomainRepo {
	return &memCollegeDomainRepo{entries: make(map[string]*model.CollegeDomain)}
}

func (r *memCollegeDomainRepo) Create(
	_ context.Context,
	req *model.CreateCollegeDomainRequest,
) (*model.CollegeDomain, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.Domain == req.Domain {
			return nil, data.ErrCollegeDomainExists
		}
	}
	r.seq++
	entry := &model.CollegeDomain{
		ID:          fmt.Sprintf("dom-%d", r.seq),
		Domain:      req.Domain,
		CollegeName: req.CollegeName,
		MatchKind:   req.MatchKind,
		CreatedAt:   time.Now().UTC(),
	}
	r.entries[entry.ID] = entry
	c := *entry
	return &c, nil
}

func (r *memCollegeDomainRepo) GetByID(_ context.Context, id string) (*model.CollegeDomain, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, data.ErrCollegeDomainNotFound
	}
	c := *entry
	return &c, nil
}

func (r *memCollegeDomainRepo) List(_ context.Context, limit, offset int) ([]*model.CollegeDomain, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*model.CollegeDomain
	for _, entry := range r.entries {
		c := *entry
		all = append(all, &c)
	}
	sort.Slice(all, func(i, k int) bool { return all[i].ID < all[k].ID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memCollegeDomainRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false, nil
	}
	delete(r.entries, id)
	return true, nil
}

type memProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (r *memProfileRepo) Create(_ context.Context, req *model.CreateProfileRequest) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Email == req.Email {
			return nil, data.ErrEmailExists
		}
	}
	now := time.Now().UTC()
	p := &model.Profile{
		ID:        req.ID,
		Email:     req.Email,
		Role:      req.Role,
		FullName:  req.FullName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.profiles[p.ID] = p
	c := *p
	return &c, nil
}

func (r *memProfileRepo) GetByID(_ context.Context, id string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, data.ErrProfileNotFound
	}
	c := *p
	return &c, nil
}

func (r *memProfileRepo) GetByEmail(_ context.Context, email string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Email == email {
			c := *p
			return &c, nil
		}
	}
	return nil, data.ErrProfileNotFound
}

func (r *memProfileRepo) List(_ context.Context, _ model.ProfileListOptions) ([]*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Profile
	for _, p := range r.profiles {
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (r *memProfileRepo) SetFullName(_ context.Context, id, fullName string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, data.ErrProfileNotFound
	}
	p.FullName = fullName
	p.UpdatedAt = time.Now().UTC()
	c := *p
	return &c, nil
}

func (r *memProfileRepo) MarkCompleted(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return data.ErrProfileNotFound
	}
	p.ProfileCompleted = true
	return nil
}

func (r *memProfileRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		return false, nil
	}
	delete(r.profiles, id)
	return true, nil
}

type staticStatsRepo struct {
	student  *model.StudentDashboardStats
	employer *model.EmployerDashboardStats
	tpo      *model.TPODashboardStats
	admin    *model.AdminDashboardStats

	tpoDomain string
	err       error
}

func (r *staticStatsRepo) StudentStats(_ context.Context, _ string) (*model.StudentDashboardStats, error) {
	return r.student, r.err
}

func (r *staticStatsRepo) EmployerStats(_ context.Context, _ string) (*model.EmployerDashboardStats, error) {
	return r.employer, r.err
}

func (r *staticStatsRepo) TPOStats(_ context.Context, collegeDomain string) (*model.TPODashboardStats, error) {
	r.tpoDomain = collegeDomain
	return r.tpo, r.err
}

func (r *staticStatsRepo) AdminStats(_ context.Context) (*model.AdminDashboardStats, error) {
	return r.admin, r.err
}
