package registry

import (
	"fmt"

	"xdao.co/warden/storage"
)

// BackwardCompatibility bounds how many published configurations the planner
// bridges from. Older versions remain stored but are not processed.
const BackwardCompatibility = 3

// History is the ordered sequence of previously published module sets,
// newest first. The planner only reads it.
type History struct {
	sets []*ModuleSet
}

// NewHistory builds a history from sets ordered newest first, keeping at most
// BackwardCompatibility entries.
func NewHistory(sets []*ModuleSet) History {
	if len(sets) > BackwardCompatibility {
		sets = sets[:BackwardCompatibility]
	}
	out := make([]*ModuleSet, len(sets))
	copy(out, sets)
	return History{sets: out}
}

// Len returns the number of retained versions.
func (h History) Len() int { return len(h.sets) }

// At returns the i-th newest version (0 is the most recent).
func (h History) At(i int) *ModuleSet { return h.sets[i] }

// HistoryFromDocuments parses canonical documents, newest first.
func HistoryFromDocuments(docs [][]byte) (History, error) {
	sets := make([]*ModuleSet, 0, len(docs))
	for i, doc := range docs {
		set, err := Parse(doc)
		if err != nil {
			return History{}, wrapError(KindPlan, "REG-PLAN-001", fmt.Sprintf("history document %d is malformed", i), err)
		}
		sets = append(sets, set)
	}
	return NewHistory(sets), nil
}

// LoadHistory hydrates the most recent published configurations from a store,
// following the publication journal. At most BackwardCompatibility documents
// are read.
func LoadHistory(store storage.Store, journal storage.Journal) (History, error) {
	ids, err := journal.Latest(BackwardCompatibility)
	if err != nil {
		return History{}, wrapError(KindPlan, "REG-PLAN-002", "reading publication journal failed", err)
	}
	docs := make([][]byte, 0, len(ids))
	for _, id := range ids {
		doc, err := store.Get(id)
		if err != nil {
			return History{}, wrapError(KindPlan, "REG-PLAN-003", fmt.Sprintf("loading published document %s failed", id), err)
		}
		docs = append(docs, doc)
	}
	return HistoryFromDocuments(docs)
}

// Publish stores a set's canonical document and appends its key to the
// journal. It returns the storage key of the stored document (which covers
// the whole document, unlike the configuration fingerprint).
func Publish(store storage.Store, journal storage.Journal, s *ModuleSet) (string, error) {
	doc, err := Render(s)
	if err != nil {
		return "", err
	}
	id, err := store.Put(doc)
	if err != nil {
		return "", err
	}
	if err := journal.Append(id); err != nil {
		return "", err
	}
	return id.String(), nil
}
