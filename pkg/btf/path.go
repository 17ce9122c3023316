package btf

import (
	"fmt"
	"strconv"
)

// PathComponentKind discriminates a PathComponent.
type PathComponentKind int

const (
	PathName PathComponentKind = iota
	PathIndex
)

// PathComponent is one segment of a lexed member path: either a field
// name (`.foo`) or an array index (`[3]`).
type PathComponent struct {
	Kind  PathComponentKind
	Name  string
	Index int
}

func (c PathComponent) String() string {
	if c.Kind == PathIndex {
		return fmt.Sprintf("[%d]", c.Index)
	}
	return c.Name
}

type lexState int

const (
	stateStart lexState = iota
	stateInsideName
	stateInsideIndex
	stateAfterIndex
	stateExpectingName
	stateDone
	stateError
)

// PathComponentIter streams the components of a dotted/indexed member
// path ("a.b[3].c") one at a time. It holds only value fields, so a plain
// assignment (`clone := it`) is an O(1) deep copy — the query engine
// relies on this to back out of a failed anonymous-member probe and
// resume lexing from before the probe.
type PathComponentIter struct {
	path    string
	pos     int
	state   lexState
	lastErr error
}

// NewPathComponentIter returns an iterator over path, not yet advanced.
func NewPathComponentIter(path string) PathComponentIter {
	return PathComponentIter{path: path, state: stateStart}
}

func isNameStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameChar(b byte) bool {
	return isNameStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func (it *PathComponentIter) fail(msg string) error {
	it.state = stateError
	it.lastErr = NewError(ErrInvalidTypePath, fmt.Sprintf("%s at position %d", msg, it.pos))
	return it.lastErr
}

// Next returns the next component. ok is false once the path is fully
// consumed; a non-nil err means the path is malformed and the iterator is
// permanently stuck in the error state (further calls return the same
// error).
func (it *PathComponentIter) Next() (component PathComponent, ok bool, err error) {
	for {
		switch it.state {
		case stateDone:
			return PathComponent{}, false, nil

		case stateError:
			return PathComponent{}, false, it.lastErr

		case stateStart:
			if it.pos >= len(it.path) {
				it.state = stateDone
				return PathComponent{}, false, nil
			}
			if !isNameStart(it.path[it.pos]) {
				return PathComponent{}, false, it.fail("path must start with a name")
			}
			it.state = stateInsideName

		case stateInsideName:
			start := it.pos
			for it.pos < len(it.path) && isNameChar(it.path[it.pos]) {
				it.pos++
			}
			name := it.path[start:it.pos]

			if it.pos >= len(it.path) {
				it.state = stateDone
				return PathComponent{Kind: PathName, Name: name}, true, nil
			}

			switch it.path[it.pos] {
			case '.':
				it.pos++
				it.state = stateExpectingName
			case '[':
				it.pos++
				it.state = stateInsideIndex
			default:
				return PathComponent{}, false, it.fail(fmt.Sprintf("unexpected character %q", it.path[it.pos]))
			}
			return PathComponent{Kind: PathName, Name: name}, true, nil

		case stateExpectingName:
			if it.pos >= len(it.path) || !isNameStart(it.path[it.pos]) {
				return PathComponent{}, false, it.fail("expected a name")
			}
			it.state = stateInsideName

		case stateInsideIndex:
			start := it.pos
			for it.pos < len(it.path) && isDigit(it.path[it.pos]) {
				it.pos++
			}
			if it.pos == start {
				return PathComponent{}, false, it.fail("expected an index")
			}
			digits := it.path[start:it.pos]

			if it.pos >= len(it.path) || it.path[it.pos] != ']' {
				return PathComponent{}, false, it.fail("unterminated index")
			}

			idx, convErr := strconv.Atoi(digits)
			if convErr != nil {
				return PathComponent{}, false, it.fail("index out of range")
			}
			it.pos++ // consume ']'
			it.state = stateAfterIndex
			return PathComponent{Kind: PathIndex, Index: idx}, true, nil

		case stateAfterIndex:
			if it.pos >= len(it.path) {
				it.state = stateDone
				continue
			}
			switch it.path[it.pos] {
			case '.':
				it.pos++
				it.state = stateExpectingName
			case '[':
				it.pos++
				it.state = stateInsideIndex
			default:
				return PathComponent{}, false, it.fail(fmt.Sprintf("unexpected character %q", it.path[it.pos]))
			}
		}
	}
}
