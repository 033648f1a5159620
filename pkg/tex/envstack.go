package tex

import "strings"

// EnvStack is the environment context stack used while walking a document
// tree. Callers pass it by pointer; nothing in the package keeps one in a
// global, so independent conversions never share nesting state.
type EnvStack struct {
	names []string
}

// Push enters the named environment.
func (s *EnvStack) Push(name string) {
	s.names = append(s.names, name)
}

// Pop leaves the innermost environment and returns its name. It reports
// false on an empty stack.
func (s *EnvStack) Pop() (string, bool) {
	if len(s.names) == 0 {
		return "", false
	}
	top := s.names[len(s.names)-1]
	s.names = s.names[:len(s.names)-1]
	return top, true
}

// Top returns the innermost environment.
func (s *EnvStack) Top() (string, bool) {
	if len(s.names) == 0 {
		return "", false
	}
	return s.names[len(s.names)-1], true
}

// Depth returns the nesting depth.
func (s *EnvStack) Depth() int { return len(s.names) }

// Within reports whether name is open anywhere on the stack.
func (s *EnvStack) Within(name string) bool {
	for i := len(s.names) - 1; i >= 0; i-- {
		if s.names[i] == name {
			return true
		}
	}
	return false
}

// Enter pushes name, runs fn and pops on every exit path, including a
// panic in fn. The stack depth after Enter equals the depth before it.
func (s *EnvStack) Enter(name string, fn func() error) error {
	depth := len(s.names)
	s.Push(name)
	defer func() { s.names = s.names[:depth] }()
	return fn()
}

// Track applies the \begin{name} or \end{name} at toks[i] and reports
// whether toks[i] was one. An \end pops everything opened after its
// matching \begin; an \end with no matching \begin leaves the stack alone.
func (s *EnvStack) Track(toks TokenList, i int) bool {
	if i < 0 || i >= len(toks) {
		return false
	}
	t := toks[i]
	begin := t.IsCS("begin")
	if !begin && !t.IsCS("end") {
		return false
	}
	group, ok := NewTokenStream(toks[i+1:], 0, nil).ReadGroup()
	name := strings.TrimSpace(group.String())
	if !ok || name == "" {
		return false
	}
	if begin {
		s.Push(name)
		return true
	}
	for s.Within(name) {
		if top, _ := s.Pop(); top == name {
			break
		}
	}
	return true
}
