package extract

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsavvy/savvy-scrape/internal/models"
)

func testProfile() *Profile {
	return &Profile{
		ContainerSelectors: []string{".product-card"},
		Title:              []FieldSelector{{Selector: ".title"}},
		Price:              []FieldSelector{{Selector: ".price"}},
		OriginalPrice:      []FieldSelector{{Selector: ".original-price"}},
		Link:               []FieldSelector{{Selector: "a", Attr: "href"}},
		Image:              []FieldSelector{{Selector: "img", Attr: "src"}, {Selector: "img", Attr: "data-src"}},
		ScriptGlobals: []ScriptGlobal{{
			Marker:   "window.pageData",
			ListPath: "mods.listItems",
			Fields: ScriptFields{
				ID:    "itemId",
				Title: "name",
				Price: "priceShow",
				URL:   "productUrl",
				Image: "image",
			},
		}},
		ProductURLPattern: regexp.MustCompile(`/p/`),
	}
}

const scriptFixture = `<html><head><script>
window.pageData = {"mods":{"listItems":[
  {"itemId":"101","name":"Wireless Mouse","priceShow":"₱499.00","productUrl":"//www.example.ph/p/wireless-mouse-101.html","image":"//img.example.ph/101.jpg"},
  {"itemId":"102","name":"Mechanical {Keyboard}","priceShow":"₱2,350.00","productUrl":"//www.example.ph/p/mech-keyboard-102.html","image":"//img.example.ph/102.jpg"}
]}};
</script></head><body></body></html>`

func TestChainScriptJSONWins(t *testing.T) {
	chain := NewChain()
	raws, source, err := chain.Run(&Page{URL: "https://www.example.ph/search?q=x", HTML: scriptFixture}, testProfile())
	require.NoError(t, err)
	assert.Equal(t, models.SourceScriptJSON, source)
	require.Len(t, raws, 2)
	assert.Equal(t, "101", raws[0].ID)
	assert.Equal(t, "Wireless Mouse", raws[0].Title)
	assert.Equal(t, "₱499.00", raws[0].Price)
	// Braces inside string values must not break the literal scan.
	assert.Equal(t, "Mechanical {Keyboard}", raws[1].Title)
}

const domFixture = `<html><body>
<div class="product-card">
  <a href="/p/usb-hub-7port"><img src="/img/hub.jpg"></a>
  <span class="title">7-Port USB Hub</span>
  <span class="price">₱899.00</span>
  <span class="original-price">₱1,199.00</span>
</div>
<div class="product-card">
  <a href="/p/hdmi-cable-2m"><img data-src="/img/hdmi.jpg"></a>
  <span class="title">HDMI Cable 2m</span>
  <span class="price">₱245.00</span>
</div>
</body></html>`

func TestChainFallsBackToDOM(t *testing.T) {
	chain := NewChain()
	raws, source, err := chain.Run(&Page{URL: "https://www.example.ph/search?q=x", HTML: domFixture}, testProfile())
	require.NoError(t, err)
	assert.Equal(t, models.SourceDOM, source)
	require.Len(t, raws, 2)
	assert.Equal(t, "7-Port USB Hub", raws[0].Title)
	assert.Equal(t, "₱899.00", raws[0].Price)
	assert.Equal(t, "₱1,199.00", raws[0].OriginalPrice)
	assert.Equal(t, "/p/usb-hub-7port", raws[0].ProductURL)
	assert.Equal(t, "/img/hub.jpg", raws[0].ImageURL)
	// Lazy-load attribute is an ordered candidate, not a special case.
	assert.Equal(t, "/img/hdmi.jpg", raws[1].ImageURL)
}

const regexFixture = `<html><body>
<div><a href="/p/running-shoes-blue"><img src="/img/shoes.jpg" alt="Running Shoes Blue"></a> ₱1,750.00</div>
<div><a href="/p/running-shoes-blue">duplicate anchor</a></div>
<div><a href="/about-us">not a product</a></div>
<div><a href="/p/yoga-mat-6mm"><img src="/img/mat.jpg"></a> PHP 550</div>
</body></html>`

func TestChainFallsBackToRegex(t *testing.T) {
	prof := testProfile()
	// No containers match, no script data: only the regex pass is left.
	prof.ContainerSelectors = []string{".no-such-container"}

	chain := NewChain()
	raws, source, err := chain.Run(&Page{URL: "https://www.example.ph/search?q=x", HTML: regexFixture}, prof)
	require.NoError(t, err)
	assert.Equal(t, models.SourceRegex, source)
	require.Len(t, raws, 2)

	assert.Equal(t, "/p/running-shoes-blue", raws[0].ProductURL)
	assert.Equal(t, "Running Shoes Blue", raws[0].Title)
	assert.Equal(t, "₱1,750.00", raws[0].Price)

	assert.Equal(t, "/p/yoga-mat-6mm", raws[1].ProductURL)
	assert.Equal(t, "yoga mat 6mm", raws[1].Title)
	assert.Equal(t, "PHP 550", raws[1].Price)
}

func TestChainErrEmpty(t *testing.T) {
	chain := NewChain()
	_, _, err := chain.Run(&Page{URL: "https://www.example.ph/search?q=x", HTML: "<html><body>nothing here</body></html>"}, testProfile())
	require.ErrorIs(t, err, ErrEmpty)
}

func TestChainMaxProducts(t *testing.T) {
	prof := testProfile()
	prof.MaxProducts = 1

	chain := NewChain()
	raws, _, err := chain.Run(&Page{URL: "https://www.example.ph/search?q=x", HTML: domFixture}, prof)
	require.NoError(t, err)
	assert.Len(t, raws, 1)
}

func TestJSONLDItemList(t *testing.T) {
	page := &Page{URL: "https://www.example.ph/search?q=x", HTML: `<html><head>
<script type="application/ld+json">
{"@type":"ItemList","itemListElement":[
  {"item":{"@type":"Product","name":"Canvas Tote","url":"https://www.example.ph/p/canvas-tote","offers":{"price":"349"},"aggregateRating":{"ratingValue":"4.8","reviewCount":"57"}}},
  {"item":{"@type":"Product","name":"Denim Jacket","url":"https://www.example.ph/p/denim-jacket","offers":{"price":1899.5}}}
]}
</script></head><body></body></html>`}

	prof := testProfile()
	prof.ScriptGlobals = nil

	s := &ScriptJSONStrategy{}
	raws, err := s.Extract(page, prof)
	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, "Canvas Tote", raws[0].Title)
	assert.Equal(t, "349", raws[0].Price)
	assert.Equal(t, "4.8", raws[0].Rating)
	assert.Equal(t, "57", raws[0].RatingCount)
	assert.Equal(t, "1899.5", raws[1].Price)
}

func TestSliceJSONLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"assignment object", ` = {"a":1}`, `{"a":1}`},
		{"nested braces in string", ` = {"t":"a{b}c","n":{"x":1}}`, `{"t":"a{b}c","n":{"x":1}}`},
		{"array literal", `=[1,2,3];`, `[1,2,3]`},
		{"unbalanced", ` = {"a":1`, ""},
		{"non-assignment prefix", `foo(); {"a":1}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sliceJSONLiteral(tt.in))
		})
	}
}
