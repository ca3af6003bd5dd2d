// Package testutil provides an in-memory implementation of the
// repository interfaces so services and controllers can be tested
// without a live database.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/openformlab/form-server/apperr"
	"github.com/openformlab/form-server/models"
	"github.com/openformlab/form-server/repositories"
)

var (
	_ repositories.UserRepository     = (*MemoryUserRepo)(nil)
	_ repositories.FormRepository     = (*MemoryFormRepo)(nil)
	_ repositories.ResponseRepository = (*MemoryResponseRepo)(nil)
)

// MemoryStore implements repositories.UserRepository, FormRepository and
// ResponseRepository over plain maps, mirroring the relational cascade
// rules.
type MemoryStore struct {
	mu sync.Mutex

	nextUserID     uint
	nextFormID     uint
	nextQuestionID uint
	nextResponseID uint
	nextAnswerID   uint

	users     map[uint]models.User
	forms     map[uint]models.Form
	questions map[uint]models.Question
	responses map[uint]models.Response
	answers   map[uint]models.Answer
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[uint]models.User),
		forms:     make(map[uint]models.Form),
		questions: make(map[uint]models.Question),
		responses: make(map[uint]models.Response),
		answers:   make(map[uint]models.Answer),
	}
}

// Users exposes a UserRepository view of the store.
func (m *MemoryStore) Users() *MemoryUserRepo { return &MemoryUserRepo{store: m} }

// Forms exposes a FormRepository view of the store.
func (m *MemoryStore) Forms() *MemoryFormRepo { return &MemoryFormRepo{store: m} }

// Responses exposes a ResponseRepository view of the store.
func (m *MemoryStore) Responses() *MemoryResponseRepo { return &MemoryResponseRepo{store: m} }

/* ---- UserRepository ---- */

type MemoryUserRepo struct {
	store *MemoryStore
}

func (r *MemoryUserRepo) Create(ctx context.Context, user *models.User) error {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextUserID++
	user.ID = m.nextUserID
	m.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFoundf("user %d", id)
	}
	return &u, nil
}

func (r *MemoryUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, apperr.NotFoundf("user %q", username)
}

func (r *MemoryUserRepo) CountByUsername(ctx context.Context, username string) (int64, error) {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, u := range m.users {
		if u.Username == username {
			count++
		}
	}
	return count, nil
}

/* ---- FormRepository ---- */

type MemoryFormRepo struct {
	store *MemoryStore
}

func (r *MemoryFormRepo) Create(ctx context.Context, form *models.Form) error {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextFormID++
	form.ID = m.nextFormID
	for i := range form.Questions {
		m.nextQuestionID++
		form.Questions[i].ID = m.nextQuestionID
		form.Questions[i].FormID = form.ID
		m.questions[form.Questions[i].ID] = form.Questions[i]
	}
	stored := *form
	stored.Questions = nil
	m.forms[form.ID] = stored
	return nil
}

func (r *MemoryFormRepo) FindByID(ctx context.Context, id uint) (*models.Form, error) {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	form, ok := m.forms[id]
	if !ok {
		return nil, apperr.NotFoundf("form %d", id)
	}
	form.Questions = m.questionsOfLocked(id)
	return &form, nil
}

func (r *MemoryFormRepo) FindAll(ctx context.Context) ([]models.Form, error) {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	var forms []models.Form
	for _, f := range m.forms {
		f.Questions = m.questionsOfLocked(f.ID)
		forms = append(forms, f)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].ID < forms[j].ID })
	return forms, nil
}

func (r *MemoryFormRepo) QuestionIDs(ctx context.Context, formID uint) ([]uint, error) {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uint
	for _, q := range m.questionsOfLocked(formID) {
		ids = append(ids, q.ID)
	}
	return ids, nil
}

func (r *MemoryFormRepo) Delete(ctx context.Context, id uint) error {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	for qid, q := range m.questions {
		if q.FormID == id {
			delete(m.questions, qid)
			for aid, a := range m.answers {
				if a.QuestionID == qid {
					delete(m.answers, aid)
				}
			}
		}
	}
	for rid, resp := range m.responses {
		if resp.FormID == id {
			delete(m.responses, rid)
			for aid, a := range m.answers {
				if a.ResponseID == rid {
					delete(m.answers, aid)
				}
			}
		}
	}
	delete(m.forms, id)
	return nil
}

func (m *MemoryStore) questionsOfLocked(formID uint) []models.Question {
	var questions []models.Question
	for _, q := range m.questions {
		if q.FormID == formID {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool {
		if questions[i].Order != questions[j].Order {
			return questions[i].Order < questions[j].Order
		}
		return questions[i].ID < questions[j].ID
	})
	return questions
}

/* ---- ResponseRepository ---- */

type MemoryResponseRepo struct {
	store *MemoryStore
}

func (r *MemoryResponseRepo) Create(ctx context.Context, response *models.Response) error {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextResponseID++
	response.ID = m.nextResponseID
	for i := range response.Answers {
		m.nextAnswerID++
		response.Answers[i].ID = m.nextAnswerID
		response.Answers[i].ResponseID = response.ID
		m.answers[response.Answers[i].ID] = response.Answers[i]
	}
	stored := *response
	stored.Answers = nil
	m.responses[response.ID] = stored
	return nil
}

func (r *MemoryResponseRepo) CountByForm(ctx context.Context, formID uint) (int64, error) {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, resp := range m.responses {
		if resp.FormID == formID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryResponseRepo) AnswersByQuestion(ctx context.Context, questionID uint) ([]models.Answer, error) {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()
	var answers []models.Answer
	for _, a := range m.answers {
		if a.QuestionID == questionID {
			answers = append(answers, a)
		}
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].ID < answers[j].ID })
	return answers, nil
}

// AnswerCount reports how many answers exist in total, regardless of
// question. Used by tests asserting that failed submissions write
// nothing.
func (m *MemoryStore) AnswerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.answers)
}

// ResponseCount reports how many responses exist in total.
func (m *MemoryStore) ResponseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.responses)
}
