// Package words spells monetary amounts out in Spanish the way Peruvian
// invoices print them on the "SON:" line, e.g.
//
//	CIENTO DIECIOCHO CON 50/100 SOLES
package words

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/comprobante-printer/internal/decimal"
)

// Currency names the major unit in its singular and plural forms.
type Currency struct {
	Singular string
	Plural   string
}

// Soles is the only currency printed on comprobantes.
var Soles = Currency{Singular: "SOL", Plural: "SOLES"}

const (
	zeroWord    = "CERO"
	hundredWord = "CIEN"
	oneThousand = "MIL"
	oneMillion  = "UN MILLÓN"
	joiner      = "CON"
)

// Indexed by value; no regular pattern below twenty.
var units = [20]string{
	"", "UNO", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE",
	"DIEZ", "ONCE", "DOCE", "TRECE", "CATORCE", "QUINCE", "DIECISÉIS", "DIECISIETE", "DIECIOCHO", "DIECINUEVE",
}

// Indexed by the tens digit.
var decades = [10]string{
	"", "", "VEINTE", "TREINTA", "CUARENTA", "CINCUENTA", "SESENTA", "SETENTA", "OCHENTA", "NOVENTA",
}

// Indexed by the hundreds digit. 100 on its own is hundredWord.
var hundredsTable = [10]string{
	"", "CIENTO", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS", "QUINIENTOS", "SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS",
}

// Format spells an amount in soles.
func Format(amount decimal.Decimal) string {
	return ToWords(amount, Soles)
}

// ToWords spells amount out with its céntimos as a NN/100 fraction.
//
// An integer part of exactly one uses the singular unit and puts the fraction
// last ("UN SOL CON 00/100"); every other amount, zero included, ends with the
// plural unit.
func ToWords(amount decimal.Decimal, cur Currency) string {
	whole, cents := money.Split(amount)

	if whole == 1 {
		return fmt.Sprintf("UN %s %s %02d/100", cur.Singular, joiner, cents)
	}
	return fmt.Sprintf("%s %s %02d/100 %s", integerWords(whole), joiner, cents, cur.Plural)
}

func integerWords(n int64) string {
	if n == 0 {
		return zeroWord
	}

	millions := n / 1_000_000
	thousands := (n % 1_000_000) / 1000
	rest := n % 1000

	tiers := make([]string, 0, 3)

	switch {
	case millions == 1:
		tiers = append(tiers, oneMillion)
	case millions >= 1000:
		// The millions tier needs its own thousands tier; "UNO" shortens
		// before a noun (MIL UN MILLONES).
		tiers = append(tiers, shortenOne(integerWords(millions))+" MILLONES")
	case millions > 1:
		tiers = append(tiers, hundreds(millions)+" MILLONES")
	}

	switch {
	case thousands == 1:
		tiers = append(tiers, oneThousand)
	case thousands > 1:
		tiers = append(tiers, hundreds(thousands)+" "+oneThousand)
	}

	if rest > 0 {
		tiers = append(tiers, hundreds(rest))
	}

	return strings.Join(tiers, " ")
}

func shortenOne(w string) string {
	if rest, ok := strings.CutSuffix(w, " "+units[1]); ok {
		return rest + " UN"
	}
	return w
}

// hundreds spells 0..999; zero yields the empty string.
func hundreds(n int64) string {
	if n == 100 {
		return hundredWord
	}

	parts := make([]string, 0, 4)
	if h := n / 100; h > 0 {
		parts = append(parts, hundredsTable[h])
	}

	switch t := n % 100; {
	case t >= 20:
		parts = append(parts, decades[t/10])
		if u := t % 10; u != 0 {
			parts = append(parts, "Y", units[u])
		}
	case t > 0:
		parts = append(parts, units[t])
	}

	return strings.Join(parts, " ")
}
