// SPDX-License-Identifier: Apache-2.0

package order

import "github.com/depsvc/rcdep/deptree"

// visitFrame is one in-progress node of the depth-first walk: the
// DepInfo being visited, a cursor into the edge-kind list being
// followed, a cursor into the current edge kind's target list, and — for
// a target currently being expanded through the provider resolver — the
// candidate list and a cursor into it. Keeping this state explicit
// rather than on the Go call stack means the walk resumes a parent
// frame exactly where it left off once a child frame finishes, without
// native recursion.
type visitFrame struct {
	di           *deptree.DepInfo
	typeIdx      int
	targetIdx    int
	candidates   []deptree.ServiceName
	candidateIdx int
}

// frameStack is a LIFO of visitFrame, pushed/popped the same way as the
// teacher's own change stack: push to defer, pop to resume.
type frameStack struct {
	frames []*visitFrame
}

func (s *frameStack) isEmpty() bool {
	return len(s.frames) == 0
}

func (s *frameStack) push(f *visitFrame) {
	s.frames = append(s.frames, f)
}

func (s *frameStack) top() *visitFrame {
	return s.frames[len(s.frames)-1]
}

func (s *frameStack) pop() *visitFrame {
	f := s.top()
	s.frames = s.frames[:len(s.frames)-1]
	return f
}
