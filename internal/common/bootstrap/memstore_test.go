package bootstrap

import (
	"context"
	"sort"
	"sync"

	folderdomain "github.com/Deek-011/formbot/internal/folder/domain"
	folderrepo "github.com/Deek-011/formbot/internal/folder/repository"
	formdomain "github.com/Deek-011/formbot/internal/form/domain"
	formrepo "github.com/Deek-011/formbot/internal/form/repository"
	userdomain "github.com/Deek-011/formbot/internal/user/domain"
	userrepo "github.com/Deek-011/formbot/internal/user/repository"
)

type memUsers struct {
	mu    sync.Mutex
	users map[userdomain.ID]userdomain.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[userdomain.ID]userdomain.User)}
}

func (m *memUsers) Create(_ context.Context, u userdomain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return userrepo.ErrEmailAlreadyExists
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (userdomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *memUsers) FindByID(_ context.Context, id userdomain.ID) (userdomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) Update(_ context.Context, u userdomain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return userrepo.ErrUserNotFound
	}
	m.users[u.ID] = u
	return nil
}

type memFolders struct {
	mu      sync.Mutex
	folders map[string]folderdomain.Folder
	forms   *memForms
}

func newMemFolders(forms *memForms) *memFolders {
	return &memFolders{folders: make(map[string]folderdomain.Folder), forms: forms}
}

func (m *memFolders) Create(_ context.Context, f folderdomain.Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.folders {
		if existing.UserID == f.UserID && existing.Name == f.Name {
			return folderrepo.ErrFolderExists
		}
	}
	m.folders[f.ID] = f
	return nil
}

func (m *memFolders) FindByID(_ context.Context, id string) (folderdomain.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.folders[id]
	if !ok {
		return folderdomain.Folder{}, folderrepo.ErrFolderNotFound
	}
	return f, nil
}

func (m *memFolders) ListByUser(_ context.Context, userID string) ([]folderdomain.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []folderdomain.Folder
	for _, f := range m.folders {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memFolders) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.folders[id]; !ok {
		return folderrepo.ErrFolderNotFound
	}
	delete(m.folders, id)
	m.forms.deleteByFolder(id)
	return nil
}

type memForms struct {
	mu    sync.Mutex
	forms map[string]formdomain.Form
}

func newMemForms() *memForms {
	return &memForms{forms: make(map[string]formdomain.Form)}
}

func (m *memForms) Create(_ context.Context, f formdomain.Form) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forms[f.ID] = f
	return nil
}

func (m *memForms) FindByID(_ context.Context, id string) (formdomain.Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.forms[id]
	if !ok {
		return formdomain.Form{}, formrepo.ErrFormNotFound
	}
	return f, nil
}

func (m *memForms) ListByFolder(_ context.Context, folderID string) ([]formdomain.Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []formdomain.Form
	for _, f := range m.forms {
		if f.FolderID == folderID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memForms) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.forms[id]; !ok {
		return formrepo.ErrFormNotFound
	}
	delete(m.forms, id)
	return nil
}

func (m *memForms) deleteByFolder(folderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, f := range m.forms {
		if f.FolderID == folderID {
			delete(m.forms, id)
		}
	}
}

func (m *memForms) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.forms)
}
