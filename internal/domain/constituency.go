package domain

// Constituency is the scope a chat, its events and its rankings belong to.
type Constituency struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	County string `json:"county"`
}

var constituencies = []Constituency{
	{ID: "westlands", Name: "Westlands", County: "Nairobi"},
	{ID: "dagoretti-north", Name: "Dagoretti North", County: "Nairobi"},
	{ID: "dagoretti-south", Name: "Dagoretti South", County: "Nairobi"},
	{ID: "langata", Name: "Lang'ata", County: "Nairobi"},
	{ID: "kibra", Name: "Kibra", County: "Nairobi"},
	{ID: "roysambu", Name: "Roysambu", County: "Nairobi"},
	{ID: "kasarani", Name: "Kasarani", County: "Nairobi"},
	{ID: "ruaraka", Name: "Ruaraka", County: "Nairobi"},
	{ID: "embakasi-south", Name: "Embakasi South", County: "Nairobi"},
	{ID: "embakasi-north", Name: "Embakasi North", County: "Nairobi"},
	{ID: "embakasi-central", Name: "Embakasi Central", County: "Nairobi"},
	{ID: "embakasi-east", Name: "Embakasi East", County: "Nairobi"},
	{ID: "embakasi-west", Name: "Embakasi West", County: "Nairobi"},
	{ID: "makadara", Name: "Makadara", County: "Nairobi"},
	{ID: "kamukunji", Name: "Kamukunji", County: "Nairobi"},
	{ID: "starehe", Name: "Starehe", County: "Nairobi"},
	{ID: "mathare", Name: "Mathare", County: "Nairobi"},
}

// Constituencies returns every known constituency.
func Constituencies() []Constituency {
	return append([]Constituency(nil), constituencies...)
}

// LookupConstituency finds a constituency by its URL identifier.
func LookupConstituency(id string) (Constituency, bool) {
	for _, c := range constituencies {
		if c.ID == id {
			return c, true
		}
	}
	return Constituency{}, false
}
