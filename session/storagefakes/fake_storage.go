package storagefakes

import (
	"sync"

	"gametrade/session"
)

var _ session.Storage = (*FakeStorage)(nil)

// FakeStorage is an in-memory session.Storage for tests.
type FakeStorage struct {
	lock    sync.Mutex
	record  session.Record
	present bool

	SaveErr   error
	LoadErr   error
	DeleteErr error
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{}
}

func (fs *FakeStorage) Save(rec session.Record) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.SaveErr != nil {
		return fs.SaveErr
	}
	fs.record = rec
	fs.present = true
	return nil
}

func (fs *FakeStorage) Load() (session.Record, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.LoadErr != nil {
		return session.Record{}, fs.LoadErr
	}
	if !fs.present {
		return session.Record{}, session.ErrNotFound
	}
	return fs.record, nil
}

func (fs *FakeStorage) Delete() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.DeleteErr != nil {
		return fs.DeleteErr
	}
	fs.record = session.Record{}
	fs.present = false
	return nil
}

// Persisted reports whether a record is currently stored, and returns it.
func (fs *FakeStorage) Persisted() (session.Record, bool) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	return fs.record, fs.present
}
