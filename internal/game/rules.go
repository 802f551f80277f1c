package game

import (
	"fmt"
	"math"
)

// CreateEmptyBoard returns a board of size*size empty cells.
func CreateEmptyBoard(size int) (Board, error) {
	if size < MinBoardSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return make(Board, size*size), nil
}

// IsBoardFull reports whether no cell is empty.
func IsBoardFull(board Board) bool {
	for _, cell := range board {
		if cell == None {
			return false
		}
	}
	return true
}

// SizeOf returns the side length of a square board.
func SizeOf(board Board) (int, error) {
	size := int(math.Sqrt(float64(len(board))))
	for size*size > len(board) {
		size--
	}
	for (size+1)*(size+1) <= len(board) {
		size++
	}
	if size < MinBoardSize || size*size != len(board) {
		return 0, fmt.Errorf("%w: %d cells is not a square board", ErrInvalidSize, len(board))
	}
	return size, nil
}

// CenterIndex is the index floor(size²/2); it is the exact center only for odd sizes.
func CenterIndex(size int) int {
	return size * size / 2
}

// IndexToCoord converts a row-major index to its (row, col) position.
func IndexToCoord(index, size int) (row, col int) {
	return index / size, index % size
}

// CoordToIndex converts a (row, col) position to its row-major index.
func CoordToIndex(row, col, size int) int {
	return row*size + col
}

// WinningLines lists every line that wins on a board of the given size:
// rows, then columns, then the ↘ diagonal, then the ↗ diagonal.
func WinningLines(size int) [][]int {
	if size < MinBoardSize {
		return nil
	}
	lines := make([][]int, 0, 2*size+2)
	for r := 0; r < size; r++ {
		line := make([]int, size)
		for c := 0; c < size; c++ {
			line[c] = CoordToIndex(r, c, size)
		}
		lines = append(lines, line)
	}
	for c := 0; c < size; c++ {
		line := make([]int, size)
		for r := 0; r < size; r++ {
			line[r] = CoordToIndex(r, c, size)
		}
		lines = append(lines, line)
	}
	diag := make([]int, size)
	anti := make([]int, size)
	for i := 0; i < size; i++ {
		diag[i] = CoordToIndex(i, i, size)
		anti[i] = CoordToIndex(i, size-1-i, size)
	}
	return append(lines, diag, anti)
}

// CalculateWinner returns the first complete line in WinningLines order, or nil.
//
// It runs inside the minimax search, so the scan walks lines by index
// arithmetic and only allocates the line it returns.
func CalculateWinner(board Board, size int) *WinResult {
	if size < MinBoardSize || len(board) < size*size || isEmpty(board) {
		return nil
	}

	// Rows
	for r := 0; r < size; r++ {
		if mark := lineOwner(board, r*size, 1, size); mark != None {
			return newWinResult(mark, r*size, 1, size)
		}
	}

	// Columns
	for c := 0; c < size; c++ {
		if mark := lineOwner(board, c, size, size); mark != None {
			return newWinResult(mark, c, size, size)
		}
	}

	// Diagonals
	if mark := lineOwner(board, 0, size+1, size); mark != None {
		return newWinResult(mark, 0, size+1, size)
	}
	if size > 1 {
		if mark := lineOwner(board, size-1, size-1, size); mark != None {
			return newWinResult(mark, size-1, size-1, size)
		}
	}

	return nil
}

// lineOwner returns the mark filling the line start, start+step, ... (size cells), or None.
func lineOwner(board Board, start, step, size int) PlayerMark {
	first := board[start]
	if first == None {
		return None
	}
	for i := 1; i < size; i++ {
		if board[start+i*step] != first {
			return None
		}
	}
	return first
}

func newWinResult(mark PlayerMark, start, step, size int) *WinResult {
	line := make([]int, size)
	for i := range line {
		line[i] = start + i*step
	}
	return &WinResult{Winner: mark, Line: line}
}

func isEmpty(board Board) bool {
	for _, cell := range board {
		if cell != None {
			return false
		}
	}
	return true
}
