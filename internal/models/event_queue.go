package models

import (
	"container/heap"
	"sync"
	"time"
)

// Event is a scheduled step in an order's timeline.
type Event struct {
	Time        time.Time
	Type        string
	OrderNumber string
	Data        interface{}
	seq         uint64
}

// EventQueue is a time-ordered priority queue. Events scheduled for the same
// instant come out in the order they were enqueued.
type EventQueue struct {
	events  []*Event
	nextSeq uint64
	mutex   sync.Mutex
}

type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].Time.Equal(h[j].Time) {
		return h[i].seq < h[j].seq
	}
	return h[i].Time.Before(h[j].Time)
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

func NewEventQueue() *EventQueue {
	return &EventQueue{events: make([]*Event, 0)}
}

func (eq *EventQueue) Enqueue(event *Event) {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	event.seq = eq.nextSeq
	eq.nextSeq++
	heap.Push((*eventHeap)(&eq.events), event)
}

// Dequeue removes and returns the earliest event, or nil when empty.
func (eq *EventQueue) Dequeue() *Event {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	if len(eq.events) == 0 {
		return nil
	}
	return heap.Pop((*eventHeap)(&eq.events)).(*Event)
}

func (eq *EventQueue) Peek() *Event {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	if len(eq.events) == 0 {
		return nil
	}
	return eq.events[0]
}

// DequeueDue pops every event scheduled at or before now.
func (eq *EventQueue) DequeueDue(now time.Time) []*Event {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()

	var due []*Event
	for len(eq.events) > 0 && !eq.events[0].Time.After(now) {
		due = append(due, heap.Pop((*eventHeap)(&eq.events)).(*Event))
	}
	return due
}

func (eq *EventQueue) IsEmpty() bool {
	return eq.Len() == 0
}

func (eq *EventQueue) Len() int {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	return len(eq.events)
}
