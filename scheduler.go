package showroom

import "time"

// TaskHandle identifies a scheduled task so it can be cancelled.
type TaskHandle struct {
	id    uint32
	sched *Scheduler
}

// Cancel removes the task if it has not fired yet. It reports whether a
// pending task was removed.
func (h TaskHandle) Cancel() bool {
	if h.sched == nil {
		return false
	}
	return h.sched.cancelID(h.id)
}

type scheduledTask struct {
	id  uint32
	key string
	due time.Duration
	fn  func()
}

// Scheduler runs delayed callbacks on the scene's update goroutine. Time
// only advances when the scene updates, so tasks never fire concurrently
// with scene mutation and never fire after the scene is disposed.
//
// Tasks scheduled under the same non-empty key supersede one another: at
// most one task per key is pending at any time.
type Scheduler struct {
	now    time.Duration
	tasks  []scheduledTask
	nextID uint32
}

// After schedules fn to run once delay has elapsed. A pending task with the
// same non-empty key is cancelled first.
func (s *Scheduler) After(key string, delay time.Duration, fn func()) TaskHandle {
	if key != "" {
		s.Cancel(key)
	}
	s.nextID++
	s.tasks = append(s.tasks, scheduledTask{id: s.nextID, key: key, due: s.now + delay, fn: fn})
	return TaskHandle{id: s.nextID, sched: s}
}

// Cancel removes the pending task with the given key. It reports whether
// one was removed.
func (s *Scheduler) Cancel(key string) bool {
	for i := range s.tasks {
		if s.tasks[i].key == key {
			s.removeAt(i)
			return true
		}
	}
	return false
}

// Pending reports whether a task with the given key is waiting to fire.
func (s *Scheduler) Pending(key string) bool {
	for i := range s.tasks {
		if s.tasks[i].key == key {
			return true
		}
	}
	return false
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Clear cancels every pending task.
func (s *Scheduler) Clear() {
	for i := range s.tasks {
		s.tasks[i] = scheduledTask{}
	}
	s.tasks = s.tasks[:0]
}

// Advance moves the clock forward by dt and runs every task that became due,
// earliest first. Tasks scheduled by a running task wait for a later Advance
// even if their delay is zero.
func (s *Scheduler) Advance(dt time.Duration) {
	s.now += dt
	limit := s.nextID
	for {
		i := s.nextDue(limit)
		if i < 0 {
			return
		}
		t := s.tasks[i]
		s.removeAt(i)
		t.fn()
	}
}

// nextDue returns the index of the earliest due task with an id up to limit,
// or -1. Ties go to the task scheduled first.
func (s *Scheduler) nextDue(limit uint32) int {
	best := -1
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.due > s.now || t.id > limit {
			continue
		}
		if best < 0 || t.due < s.tasks[best].due {
			best = i
		}
	}
	return best
}

func (s *Scheduler) cancelID(id uint32) bool {
	for i := range s.tasks {
		if s.tasks[i].id == id {
			s.removeAt(i)
			return true
		}
	}
	return false
}

func (s *Scheduler) removeAt(i int) {
	copy(s.tasks[i:], s.tasks[i+1:])
	s.tasks[len(s.tasks)-1] = scheduledTask{}
	s.tasks = s.tasks[:len(s.tasks)-1]
}
