// Package persona generates the fake victim identity a session presents
// to the operator. The same session always resolves to the same identity,
// so details the persona "reveals" never contradict each other.
package persona

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

var firstNamesMale = []string{
	"Ramesh", "Suresh", "Mahesh", "Rajesh", "Mukesh", "Dinesh", "Ganesh",
	"Anil", "Sunil", "Vijay", "Sanjay", "Ajay", "Ravi", "Kumar", "Mohan",
	"Sohan", "Gopal", "Krishna", "Shyam", "Ram", "Lakshman", "Bharat",
	"Amit", "Sumit", "Rohit", "Mohit", "Nitin", "Sachin", "Rahul", "Deepak",
}

var firstNamesFemale = []string{
	"Sunita", "Anita", "Kavita", "Savita", "Geeta", "Seema", "Neeta",
	"Rekha", "Shobha", "Usha", "Asha", "Nisha", "Ritu", "Manju", "Anju",
	"Suman", "Poonam", "Kiran", "Priya", "Pooja", "Neha", "Sneha", "Divya",
	"Meera", "Lakshmi", "Sarita", "Mamta", "Kamla", "Radha", "Sita",
}

var lastNames = []string{
	"Sharma", "Verma", "Gupta", "Singh", "Kumar", "Yadav", "Patel", "Shah",
	"Mehta", "Joshi", "Pandey", "Mishra", "Tiwari", "Dubey", "Shukla",
	"Agarwal", "Bansal", "Goel", "Jain", "Khanna", "Malhotra", "Kapoor",
	"Reddy", "Nair", "Menon", "Iyer", "Pillai", "Naidu", "Rao", "Choudhary",
}

var cities = []struct{ city, state string }{
	{"Mumbai", "Maharashtra"}, {"Delhi", "Delhi"}, {"Bangalore", "Karnataka"},
	{"Chennai", "Tamil Nadu"}, {"Kolkata", "West Bengal"}, {"Hyderabad", "Telangana"},
	{"Pune", "Maharashtra"}, {"Ahmedabad", "Gujarat"}, {"Jaipur", "Rajasthan"},
	{"Lucknow", "Uttar Pradesh"}, {"Kanpur", "Uttar Pradesh"}, {"Nagpur", "Maharashtra"},
	{"Indore", "Madhya Pradesh"}, {"Bhopal", "Madhya Pradesh"}, {"Patna", "Bihar"},
	{"Chandigarh", "Punjab"}, {"Coimbatore", "Tamil Nadu"}, {"Kochi", "Kerala"},
	{"Surat", "Gujarat"}, {"Vadodara", "Gujarat"},
}

var occupations = []string{
	"Retired Government Employee", "Retired Teacher", "Housewife", "Small Business Owner",
	"Farmer", "Shop Owner", "Auto Driver", "Factory Worker", "Security Guard",
	"Clerk", "Accountant", "Teacher", "Nurse", "Bank Employee (Retired)",
	"Railway Employee (Retired)", "Post Office Employee", "Electrician", "Carpenter",
	"Tailor", "Grocery Store Owner",
}

var banks = []string{"SBI", "PNB", "BOB", "HDFC", "ICICI", "Axis", "Canara", "Union", "BOI", "IDBI"}

var upiSuffixes = []string{"@ybl", "@paytm", "@okaxis", "@oksbi", "@ibl", "@apl", "@upi"}

// Identity is the fake victim a session presents. Financial details are
// partial by construction; there is nothing real to leak.
type Identity struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	FullName   string `json:"fullName"`
	Gender     string `json:"gender"`
	Age        int    `json:"age"`
	Occupation string `json:"occupation"`
	City       string `json:"city"`
	State      string `json:"state"`

	BankName     string `json:"bank"`
	AccountLast4 string `json:"accountLast4"`
	AadhaarLast4 string `json:"aadharLast4"`
	PANPrefix    string `json:"panPrefix"`
	UPIID        string `json:"upiId"`
	PhoneLast4   string `json:"phoneLast4"`
}

// Intro is the persona's natural self-introduction.
func (id *Identity) Intro() string {
	return fmt.Sprintf("My name is %s, I am a %s from %s.", id.FullName, id.Occupation, id.City)
}

// PartialAccount gives the masked account line used for "verification".
func (id *Identity) PartialAccount() string {
	return fmt.Sprintf("My account ends with %s in %s", id.AccountLast4, id.BankName)
}

// PartialAadhaar gives the masked Aadhaar line.
func (id *Identity) PartialAadhaar() string {
	return fmt.Sprintf("My Aadhar last 4 digits are %s", id.AadhaarLast4)
}

// Hints returns the identity as prompt-ready key facts.
func (id *Identity) Hints() map[string]string {
	return map[string]string{
		"name":         id.FullName,
		"gender":       id.Gender,
		"age":          fmt.Sprintf("%d", id.Age),
		"occupation":   id.Occupation,
		"location":     id.City + ", " + id.State,
		"bank":         id.BankName,
		"account_hint": "XXXX" + id.AccountLast4,
		"aadhar_hint":  "XXXX XXXX " + id.AadhaarLast4,
		"pan_hint":     id.PANPrefix + "XXXX",
		"upi_id":       id.UPIID,
		"phone_hint":   "+91 XXXXX X" + id.PhoneLast4,
	}
}

// Generator builds identities deterministically from the session id and
// caches them. Safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	cache map[string]*Identity
}

// NewGenerator returns an empty identity generator.
func NewGenerator() *Generator {
	return &Generator{cache: make(map[string]*Identity)}
}

// Identity returns the victim identity for a session, generating it on
// first use. The session id seeds the generation, so regenerating after a
// restart yields the identical identity.
func (g *Generator) Identity(sessionID string) *Identity {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id, ok := g.cache[sessionID]; ok {
		return id
	}

	sum := sha256.Sum256([]byte(sessionID))
	rng := rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(sum[:8]) & 0x7fffffffffffffff)))

	gender := "male"
	firstPool := firstNamesMale
	if rng.Intn(2) == 1 {
		gender = "female"
		firstPool = firstNamesFemale
	}
	first := firstPool[rng.Intn(len(firstPool))]
	last := lastNames[rng.Intn(len(lastNames))]
	place := cities[rng.Intn(len(cities))]

	panLetters := make([]byte, 5)
	for i := range panLetters {
		panLetters[i] = byte('A' + rng.Intn(26))
	}

	upiName := fmt.Sprintf("%s%d", strings.ToLower(first), 10+rng.Intn(90))

	id := &Identity{
		FirstName:  first,
		LastName:   last,
		FullName:   first + " " + last,
		Gender:     gender,
		Age:        45 + rng.Intn(28), // older reads as a believable victim
		Occupation: occupations[rng.Intn(len(occupations))],
		City:       place.city,
		State:      place.state,

		BankName:     banks[rng.Intn(len(banks))],
		AccountLast4: fmt.Sprintf("%04d", 1000+rng.Intn(9000)),
		AadhaarLast4: fmt.Sprintf("%04d", 1000+rng.Intn(9000)),
		PANPrefix:    string(panLetters),
		UPIID:        upiName + upiSuffixes[rng.Intn(len(upiSuffixes))],
		PhoneLast4:   fmt.Sprintf("%04d", 1000+rng.Intn(9000)),
	}

	g.cache[sessionID] = id
	return id
}

// Drop removes a cached identity.
func (g *Generator) Drop(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.cache, sessionID)
}
