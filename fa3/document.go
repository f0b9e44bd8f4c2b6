// Package fa3 implements C6: the FA(3) Faktura XML document the national
// e-invoicing schema (KSeF) requires. The tree is a plain Go struct marshalled
// with encoding/xml, field order fixed by declaration order, the idiomatic
// way to guarantee the skeleton's mandatory child ordering (§4.6) without
// hand-built string concatenation.
package fa3

import "encoding/xml"

const namespace = "http://crd.gov.pl/wzor/2025/06/25/13775/"

// Faktura is the document root.
type Faktura struct {
	XMLName xml.Name `xml:"Faktura"`
	Xmlns   string   `xml:"xmlns,attr"`

	Naglowek Naglowek `xml:"Naglowek"`
	Podmiot1 Podmiot1 `xml:"Podmiot1"`
	Podmiot2 Podmiot2 `xml:"Podmiot2"`
	Fa       Fa       `xml:"Fa"`
}

// Naglowek is the document header (§4.6 step 1).
type Naglowek struct {
	KodFormularza     KodFormularza `xml:"KodFormularza"`
	WariantFormularza int           `xml:"WariantFormularza"`
	DataWytworzeniaFa string        `xml:"DataWytworzeniaFa"`
	SystemInfo        string        `xml:"SystemInfo"`
}

type KodFormularza struct {
	KodSystemowy  string `xml:"kodSystemowy,attr"`
	WersjaSchemy  string `xml:"wersjaSchemy,attr"`
	Value         string `xml:",chardata"`
}

// Adres is the shared address shape used by both Podmiot1 and Podmiot2.
type Adres struct {
	KodKraju string `xml:"KodKraju"`
	AdresL1  string `xml:"AdresL1"`
}

// DaneKontaktowe is emitted only when at least one contact field is present.
type DaneKontaktowe struct {
	Email    string `xml:"Email,omitempty"`
	Telefon  string `xml:"Telefon,omitempty"`
}

type DaneIdentyfikacyjneSeller struct {
	NIP   string `xml:"NIP"`
	Nazwa string `xml:"Nazwa"`
}

// Podmiot1 is the seller block (§4.6 step 2). Address is required.
type Podmiot1 struct {
	DaneIdentyfikacyjne DaneIdentyfikacyjneSeller `xml:"DaneIdentyfikacyjne"`
	Adres               Adres                     `xml:"Adres"`
	DaneKontaktowe      *DaneKontaktowe           `xml:"DaneKontaktowe,omitempty"`
}

type DaneIdentyfikacyjneBuyer struct {
	NIP   string `xml:"NIP"`
	Nazwa string `xml:"Nazwa"`
}

// Podmiot2 is the buyer block (§4.6 step 3).
type Podmiot2 struct {
	DaneIdentyfikacyjne DaneIdentyfikacyjneBuyer `xml:"DaneIdentyfikacyjne"`
	Adres               *Adres                   `xml:"Adres,omitempty"`
	JST                 int                      `xml:"JST"`
	GV                  int                      `xml:"GV"`
}

// Zwolnienie is the exempt-basis subgroup; exactly one of P19/P19N is set.
type Zwolnienie struct {
	P19  int    `xml:"P_19,omitempty"`
	P19C string `xml:"P_19C,omitempty"`
	P19N int    `xml:"P_19N,omitempty"`
}

type NoweSrodkiTransportu struct {
	P22N int `xml:"P_22N"`
}

type PMarzy struct {
	PPMarzyN int `xml:"P_PMarzyN"`
}

// Adnotacje carries the fixed required annotation flags (§4.6 step 4).
type Adnotacje struct {
	P16                   int                   `xml:"P_16"`
	P17                   int                   `xml:"P_17"`
	P18                   int                   `xml:"P_18"`
	P18A                  int                   `xml:"P_18A"`
	Zwolnienie            Zwolnienie            `xml:"Zwolnienie"`
	NoweSrodkiTransportu  NoweSrodkiTransportu  `xml:"NoweSrodkiTransportu"`
	P23                   int                   `xml:"P_23"`
	PMarzy                PMarzy                `xml:"PMarzy"`
}

// Fa is the invoice body (§4.6 step 4).
type Fa struct {
	KodWaluty string `xml:"KodWaluty"`
	P1        string `xml:"P_1"`
	P2        string `xml:"P_2"`
	P6        string `xml:"P_6"`

	P13_1 string `xml:"P_13_1,omitempty"`
	P14_1 string `xml:"P_14_1,omitempty"`
	P13_2 string `xml:"P_13_2,omitempty"`
	P14_2 string `xml:"P_14_2,omitempty"`
	P13_3 string `xml:"P_13_3,omitempty"`
	P14_3 string `xml:"P_14_3,omitempty"`
	P13_6_1 string `xml:"P_13_6_1,omitempty"`
	P13_7 string `xml:"P_13_7,omitempty"`
	P13_8 string `xml:"P_13_8,omitempty"`

	P15 string `xml:"P_15"`

	Adnotacje Adnotacje `xml:"Adnotacje"`

	RodzajFaktury string     `xml:"RodzajFaktury"`
	FaWiersz      []FaWiersz `xml:"FaWiersz"`
}

// FaWiersz is a single line item row (§4.6 step 4, final bullet).
type FaWiersz struct {
	NrWierszaFa int    `xml:"NrWierszaFa"`
	P7          string `xml:"P_7"`
	P8A         string `xml:"P_8A"`
	P8B         string `xml:"P_8B"`
	P9A         string `xml:"P_9A"`
	P11         string `xml:"P_11"`
	P12         string `xml:"P_12"`
}
