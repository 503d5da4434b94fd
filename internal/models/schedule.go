package models

// ScheduleSlot is a recurring weekly availability window for a class.
// WeekDay runs 0-6 with Sunday as 0. From and To are minute-of-day offsets
// forming a half-open [From, To) interval.
type ScheduleSlot struct {
	ID      int64 `db:"id" json:"id"`
	WeekDay int   `db:"week_day" json:"week_day"`
	From    int   `db:"from" json:"from"`
	To      int   `db:"to" json:"to"`
	ClassID int64 `db:"class_id" json:"class_id"`
}
