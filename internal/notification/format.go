package notification

import (
	"fmt"
	"time"
)

// Emails keep the original product's pt-BR date wording, e.g.
// "segunda-feira, 02 de janeiro, às 15:04h". The standard library has no
// locale-aware formatter, so the names live here.

var weekdaysPT = [...]string{
	"domingo",
	"segunda-feira",
	"terça-feira",
	"quarta-feira",
	"quinta-feira",
	"sexta-feira",
	"sábado",
}

var monthsPT = [...]string{
	"janeiro",
	"fevereiro",
	"março",
	"abril",
	"maio",
	"junho",
	"julho",
	"agosto",
	"setembro",
	"outubro",
	"novembro",
	"dezembro",
}

// FormatDate renders a meetup date for email bodies.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s, %02d de %s, às %02d:%02dh",
		weekdaysPT[t.Weekday()],
		t.Day(),
		monthsPT[t.Month()-1],
		t.Hour(),
		t.Minute(),
	)
}
