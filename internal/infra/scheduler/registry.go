package scheduler

import "sync"

// JobRegistry indexes live jobs by conversation. Operations on the same
// conversation are serialized; different conversations proceed independently.
type JobRegistry struct {
	mu            sync.Mutex
	conversations map[int64]*conversationJobs
}

type conversationJobs struct {
	mu      sync.Mutex
	handles []*JobHandle
}

// JobSet is the view of one conversation's jobs handed to Update.
// It must not be retained after the callback returns.
type JobSet struct {
	jobs *conversationJobs
}

func NewJobRegistry() *JobRegistry {
	return &JobRegistry{conversations: make(map[int64]*conversationJobs)}
}

// entry never removes a conversation once created, so a handle added after a
// concurrent clear can never land in an orphaned slot. The map therefore holds
// one small entry per conversation that ever registered or reset a reminder.
func (r *JobRegistry) entry(conversationID int64) *conversationJobs {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[conversationID]
	if !ok {
		c = &conversationJobs{}
		r.conversations[conversationID] = c
	}
	return c
}

// view runs fn under the conversation's lock without creating an entry.
// It reports false when the conversation has never been seen.
func (r *JobRegistry) view(conversationID int64, fn func(set *JobSet)) bool {
	r.mu.Lock()
	c, ok := r.conversations[conversationID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&JobSet{jobs: c})
	return true
}

// Update runs fn while holding the conversation's lock.
func (r *JobRegistry) Update(conversationID int64, fn func(set *JobSet) error) error {
	c := r.entry(conversationID)
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(&JobSet{jobs: c})
}

func (r *JobRegistry) Add(conversationID int64, h *JobHandle) {
	_ = r.Update(conversationID, func(set *JobSet) error {
		set.Add(h)
		return nil
	})
}

// CancelAndClear cancels and drops every job of the conversation and returns how many there were.
func (r *JobRegistry) CancelAndClear(conversationID int64) int {
	var n int
	r.view(conversationID, func(set *JobSet) {
		n = set.CancelAll()
	})
	return n
}

func (r *JobRegistry) Count(conversationID int64) int {
	var n int
	r.view(conversationID, func(set *JobSet) {
		n = set.Len()
	})
	return n
}

// Handles returns a snapshot of the conversation's jobs.
func (r *JobRegistry) Handles(conversationID int64) []*JobHandle {
	var out []*JobHandle
	r.view(conversationID, func(set *JobSet) {
		out = append(out, set.jobs.handles...)
	})
	return out
}

// Shutdown cancels every job in every conversation.
func (r *JobRegistry) Shutdown() int {
	r.mu.Lock()
	ids := make([]int64, 0, len(r.conversations))
	for id := range r.conversations {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	total := 0
	for _, id := range ids {
		total += r.CancelAndClear(id)
	}
	return total
}

func (s *JobSet) Add(h *JobHandle) {
	s.jobs.handles = append(s.jobs.handles, h)
}

func (s *JobSet) Len() int {
	return len(s.jobs.handles)
}

func (s *JobSet) CancelAll() int {
	n := len(s.jobs.handles)
	for _, h := range s.jobs.handles {
		h.Cancel()
	}
	s.jobs.handles = nil
	return n
}
