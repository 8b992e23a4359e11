package domain

// Descriptions holds the optional free-text sections an upstream vision
// step attaches to a page.
type Descriptions struct {
	// Visual is the "Visual Elements Description" section.
	Visual string

	// Table is the "Table Content" section.
	Table string

	// Equation is the "Key Equations" section.
	Equation string
}

// Page is one page of a vision-processed source document.
type Page struct {
	// Number is the positional page number (minimum 1).
	Number int

	// MainText is the text preceding the first description heading.
	MainText string

	// Descriptions are the optional description sections.
	Descriptions Descriptions
}
