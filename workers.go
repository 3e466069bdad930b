package tpool

import "fmt"

// Workers is the live worker registry. Callers hold the pool lock.
type Workers interface {
	Insert(worker *worker) error
	Remove(id string) bool
	Len() int
	IDs() []string
}

func NewWorkerMap() *workerMap {
	return &workerMap{items: make(map[string]*worker)}
}

type workerMap struct {
	items map[string]*worker
}

func (w *workerMap) Insert(worker *worker) error {
	if _, ok := w.items[worker.id]; ok {
		return fmt.Errorf("worker %s already registered", worker.id)
	}
	w.items[worker.id] = worker
	return nil
}

func (w *workerMap) Remove(id string) bool {
	if _, ok := w.items[id]; !ok {
		return false
	}
	delete(w.items, id)
	return true
}

func (w *workerMap) Len() int {
	return len(w.items)
}

func (w *workerMap) IDs() []string {
	ids := make([]string, 0, len(w.items))
	for id := range w.items {
		ids = append(ids, id)
	}
	return ids
}
