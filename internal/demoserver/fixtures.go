package demoserver

// FixtureVersion is one rendition of an endpoint's response.
type FixtureVersion struct {
	Body        string
	ContentType string
	Status      int
}

// Fixture holds all versions of a single endpoint.
type Fixture struct {
	Name        string
	Description string
	Versions    map[int]FixtureVersion
}

// GetAllFixtures returns all demo endpoint definitions.
func GetAllFixtures() []Fixture {
	return []Fixture{
		usersFixture(),
		catalogFixture(),
		statusFixture(),
		profileFixture(),
		mixedFixture(),
	}
}

// usersFixture differs between versions only in key order and whitespace,
// so a comparison of v1 and v2 reports no differences.
func usersFixture() Fixture {
	return Fixture{
		Name:        "users",
		Description: "JSON list; v2 reorders keys and reformats",
		Versions: map[int]FixtureVersion{
			1: {
				ContentType: "application/json",
				Body:        `{"users":[{"id":1,"name":"Ada","roles":["admin","dev"]},{"id":2,"name":"Linus","roles":["dev"]}],"total":2}`,
			},
			2: {
				ContentType: "application/json; charset=utf-8",
				Body: `{
  "total": 2,
  "users": [
    {"roles": ["admin", "dev"], "name": "Ada", "id": 1},
    {"name": "Linus", "id": 2, "roles": ["dev"]}
  ]
}`,
			},
		},
	}
}

// catalogFixture changes one price and reflows the document.
func catalogFixture() Fixture {
	return Fixture{
		Name:        "catalog",
		Description: "XML catalog; v2 changes a price and indentation",
		Versions: map[int]FixtureVersion{
			1: {
				ContentType: "application/xml",
				Body:        `<?xml version="1.0" encoding="UTF-8"?><catalog><item sku="a-1"><name>Widget</name><price currency="EUR">9.99</price></item><item sku="b-2"><name>Gadget</name><price currency="EUR">24.50</price></item></catalog>`,
			},
			2: {
				ContentType: "text/xml; charset=utf-8",
				Body: `<?xml version="1.0" encoding="UTF-8"?>
<catalog>
    <item sku="a-1">
        <name>Widget</name>
        <price currency="EUR">10.49</price>
    </item>
    <item sku="b-2">
        <name>Gadget</name>
        <price currency="EUR">24.50</price>
    </item>
</catalog>`,
			},
		},
	}
}

func statusFixture() Fixture {
	return Fixture{
		Name:        "status",
		Description: "plain text status page",
		Versions: map[int]FixtureVersion{
			1: {ContentType: "text/plain", Body: "service: billing\nstate: healthy\nuptime: 7d\n"},
			2: {ContentType: "text/plain", Body: "service: billing\nstate: degraded\nuptime: 7d\nnote: replica lag\n"},
		},
	}
}

// profileFixture embeds a JSON document as a string in v1 and inline in v2.
func profileFixture() Fixture {
	return Fixture{
		Name:        "profile",
		Description: "JSON with a stringified nested document in v1",
		Versions: map[int]FixtureVersion{
			1: {
				ContentType: "application/json",
				Body:        `{"id":7,"settings":"{\"theme\":\"dark\",\"langs\":[\"en\",\"de\"]}"}`,
			},
			2: {
				ContentType: "application/json",
				Body:        `{"id":7,"settings":{"langs":["en","de"],"theme":"dark"}}`,
			},
		},
	}
}

// mixedFixture switches from XML to JSON, which comparisons report as a
// content type mismatch.
func mixedFixture() Fixture {
	return Fixture{
		Name:        "mixed",
		Description: "XML in v1, JSON in v2",
		Versions: map[int]FixtureVersion{
			1: {ContentType: "application/xml", Body: `<a>1</a>`},
			2: {ContentType: "application/json", Body: `{"a":1}`},
		},
	}
}
