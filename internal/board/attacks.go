package board

// IsChecked reports whether the king would be attacked on (row, col).
// The king is placed on that cell for the test and the previous occupant
// is restored before returning. A piece standing on the cell is treated
// as captured and never counts as an attacker. The king's own cell is
// left occupied during the test.
func (p *Position) IsChecked(king PieceID, row, col int) bool {
	k := &p.pieces[king]
	saved := p.grid[row][col]
	p.grid[row][col] = king
	defer func() { p.grid[row][col] = saved }()

	enemy := k.Color.Other()
	for pt := range p.set[enemy] {
		for _, id := range p.set[enemy][pt] {
			pc := &p.pieces[id]
			if pc.Row == row && pc.Col == col {
				continue
			}
			if p.CanMove(id, row, col) {
				return true
			}
		}
	}
	return false
}

// InCheck reports whether the king of the given color is attacked.
func (p *Position) InCheck(c Color) bool {
	king := p.King(c)
	k := p.pieces[king]
	return p.IsChecked(king, k.Row, k.Col)
}

var kingSteps = [8][2]int{
	{1, 1}, {1, 0}, {1, -1},
	{0, 1}, {0, -1},
	{-1, 1}, {-1, 0}, {-1, -1},
}

// Evaluate reports whether the king of the given color is in check and
// whether that check is mate.
//
// Mate only looks at the king's escape squares: capturing the checking
// piece or interposing another piece is not considered, so some positions
// with a defense are still reported as mate.
// TODO: consider capture and block defenses once games relying on the
// escape-square rule no longer need to be accepted.
func (p *Position) Evaluate(c Color) (check, mate bool) {
	king := p.King(c)
	k := p.pieces[king]
	check = p.IsChecked(king, k.Row, k.Col)
	if !check {
		return false, false
	}
	for _, step := range kingSteps {
		r, col := k.Row+step[0], k.Col+step[1]
		if !onBoard(r, col) {
			continue
		}
		if p.CanMove(king, r, col) && !p.IsChecked(king, r, col) {
			return true, false
		}
	}
	return true, true
}
