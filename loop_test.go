// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zio

// fakeLoop is a minimal in-memory EventLoop used by tests so the core can
// be exercised without a real reactor.
type fakeLoop struct {
	regs map[int]func(PollEvent) error
}

func newFakeLoop() *fakeLoop {
	return &fakeLoop{regs: make(map[int]func(PollEvent) error)}
}

func (f *fakeLoop) Register(fd int, _ PollEvent, cb func(PollEvent) error) error {
	f.regs[fd] = cb
	return nil
}

func (f *fakeLoop) Unregister(fd int) error {
	delete(f.regs, fd)
	return nil
}

func (f *fakeLoop) armed(fd int) bool {
	_, ok := f.regs[fd]
	return ok
}

// fire invokes the callback registered for fd, if any, simulating the loop
// observing readiness.
func (f *fakeLoop) fire(fd int, ev PollEvent) error {
	cb, ok := f.regs[fd]
	if !ok {
		return nil
	}
	return cb(ev)
}
