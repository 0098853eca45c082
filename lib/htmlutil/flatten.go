package htmlutil

import (
	"github.com/PuerkitoBio/goquery"
)

// Block is one entry in a flattened, document-ordered list of block
// level elements. Heuristic scrapers walk these by offset instead of
// chasing live parent/sibling pointers, which keeps the traversal
// testable against fixed fixtures.
type Block struct {
	// offset within the flattened list, in document order
	Index int
	Tag   string
	Sel   *goquery.Selection
	Text  string
}

// Flatten returns every element matching `selector` in document order.
func Flatten(doc *goquery.Document, selector string) []Block {
	var blocks []Block
	doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
		tag := ""
		if len(sel.Nodes) > 0 {
			tag = sel.Nodes[0].Data
		}
		blocks = append(blocks, Block{
			Index: i,
			Tag:   tag,
			Sel:   sel,
			Text:  CleanBlockText(sel),
		})
	})
	return blocks
}

func CleanBlockText(sel *goquery.Selection) string {
	text := sel.Text()
	out := innerWhitespace.ReplaceAllString(text, " ")
	return out
}
