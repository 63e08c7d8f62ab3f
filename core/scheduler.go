package core

// Event is a callback scheduled for a point in uptime.
type Event struct {
	WakeTime uint64
	Handler  func(*Event) uint8
	ID       uint8
	Next     *Event
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Poller is a non-blocking readiness check, e.g. timer.Periodic.
// Wait returns nil when ready.
type Poller interface {
	Wait() error
}

// Task runs Run each time its Poller reports ready.
type Task struct {
	ID     uint8
	Poller Poller
	Run    func()
	Next   *Task
}

var (
	eventList *Event
	taskList  *Task
)

// ScheduleEvent adds an event to the schedule.
func ScheduleEvent(e *Event) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	insertEvent(e)
	RecordTiming(EvtEventSchedule, e.ID, clockNow(), uint32(e.WakeTime), uint32(e.WakeTime>>32))
}

// insertEvent inserts an event in sorted order by WakeTime.
// Events with equal WakeTime run in insertion order.
func insertEvent(e *Event) {
	if eventList == nil || e.WakeTime < eventList.WakeTime {
		e.Next = eventList
		eventList = e
		return
	}

	current := eventList
	for current.Next != nil && current.Next.WakeTime <= e.WakeTime {
		current = current.Next
	}

	e.Next = current.Next
	current.Next = e
}

// CancelEvent removes e if it is still scheduled.
func CancelEvent(e *Event) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for link := &eventList; *link != nil; link = &(*link).Next {
		if *link == e {
			*link = e.Next
			e.Next = nil
			return true
		}
	}
	return false
}

// AddTask registers a polled task. Tasks run in registration order.
func AddTask(t *Task) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	t.Next = nil
	if taskList == nil {
		taskList = t
		return
	}
	last := taskList
	for last.Next != nil {
		last = last.Next
	}
	last.Next = t
}

// RemoveTask unregisters t.
func RemoveTask(t *Task) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for link := &taskList; *link != nil; link = &(*link).Next {
		if *link == t {
			*link = t.Next
			t.Next = nil
			return true
		}
	}
	return false
}

// Dispatch runs every due event and polls every task once.
// Call it from the main loop.
func Dispatch() {
	dispatchEvents()
	pollTasks()
}

func dispatchEvents() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if eventList == nil {
		return
	}
	now := GetUptime()

	// Events rescheduled to a time already due wait for the next pass,
	// otherwise a handler that does not move WakeTime would run forever.
	var late *Event
	lateTail := &late
	for eventList != nil && eventList.WakeTime <= now {
		event := eventList
		eventList = event.Next
		event.Next = nil

		RecordTiming(EvtEventRun, event.ID, uint32(now), uint32(now-event.WakeTime), 0)

		if event.Handler(event) != SF_RESCHEDULE {
			continue
		}
		if event.WakeTime <= now {
			RecordTiming(EvtEventPast, event.ID, uint32(now), uint32(event.WakeTime), 0)
			*lateTail = event
			lateTail = &event.Next
			continue
		}
		insertEvent(event)
	}

	for late != nil {
		event := late
		late = event.Next
		insertEvent(event)
	}
}

// pollTasks runs without interrupts disabled so task bodies may block.
func pollTasks() {
	for t := taskList; t != nil; {
		next := t.Next
		if t.Poller.Wait() == nil {
			RecordTiming(EvtTaskRun, t.ID, clockNow(), 0, 0)
			t.Run()
		}
		t = next
	}
}

// ResetScheduler drops all events and tasks.
func ResetScheduler() {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	eventList = nil
	taskList = nil
}
