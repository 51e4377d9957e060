package basis

// slot is where a variable currently sits in a tableau.
type slot struct {
	row bool
	pos int
}

// Layout is the bijection between variables and tableau positions: every
// variable is either a row (basic) or a column (non-basic), never both.
// Exchange keeps both directions in step.
type Layout struct {
	rows  []Var
	cols  []Var
	where map[Var]slot
}

// NewLayout panics when a variable is listed twice; callers build layouts
// from disjoint sets.
func NewLayout(rows, cols []Var) *Layout {
	l := &Layout{
		rows:  append([]Var(nil), rows...),
		cols:  append([]Var(nil), cols...),
		where: make(map[Var]slot, len(rows)+len(cols)),
	}
	for i, v := range l.rows {
		l.place(v, slot{row: true, pos: i})
	}
	for j, v := range l.cols {
		l.place(v, slot{pos: j})
	}
	return l
}

func (l *Layout) place(v Var, s slot) {
	if _, dup := l.where[v]; dup {
		panic("basis: duplicate variable " + v.String())
	}
	l.where[v] = s
}

func (l *Layout) Clone() *Layout {
	c := &Layout{
		rows:  append([]Var(nil), l.rows...),
		cols:  append([]Var(nil), l.cols...),
		where: make(map[Var]slot, len(l.where)),
	}
	for v, s := range l.where {
		c.where[v] = s
	}
	return c
}

func (l *Layout) NumRows() int { return len(l.rows) }
func (l *Layout) NumCols() int { return len(l.cols) }

func (l *Layout) Row(i int) Var { return l.rows[i] }
func (l *Layout) Col(j int) Var { return l.cols[j] }

// Rows returns a copy of the basic variables in row order.
func (l *Layout) Rows() []Var { return append([]Var(nil), l.rows...) }

// Cols returns a copy of the non-basic variables in column order.
func (l *Layout) Cols() []Var { return append([]Var(nil), l.cols...) }

// RowOf reports the row of a basic variable.
func (l *Layout) RowOf(v Var) (int, bool) {
	s, ok := l.where[v]
	if !ok || !s.row {
		return -1, false
	}
	return s.pos, true
}

// ColOf reports the column of a non-basic variable.
func (l *Layout) ColOf(v Var) (int, bool) {
	s, ok := l.where[v]
	if !ok || s.row {
		return -1, false
	}
	return s.pos, true
}

// IsBasic reports whether v labels a row.
func (l *Layout) IsBasic(v Var) bool {
	_, ok := l.RowOf(v)
	return ok
}

// Exchange moves the variable of row i into column j and the variable of
// column j into row i.
func (l *Layout) Exchange(i, j int) {
	rv, cv := l.rows[i], l.cols[j]
	l.rows[i], l.cols[j] = cv, rv
	l.where[cv] = slot{row: true, pos: i}
	l.where[rv] = slot{pos: j}
}
