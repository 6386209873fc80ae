package location

// Location is a venue where matches are played.
type Location struct {
	ID           string
	Name         string
	MaxCapacity  int
	ZipCode      string
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
	Country      string
}
