package ranking

import "fmt"

// Paginate cuts entries into windows of size entries, emitting at most
// maxPages windows (0 = no cap). Entries past the cap are not paged.
func Paginate(entries []MergedEntry, size, maxPages int) []Page {
	if size <= 0 {
		return nil
	}
	limit := len(entries)
	if maxPages > 0 && limit > size*maxPages {
		limit = size * maxPages
	}
	pages := make([]Page, 0, (limit+size-1)/size)
	for start := 0; start < limit; start += size {
		end := min(start+size, limit)
		pages = append(pages, Page{Start: start + 1, End: end, Entries: entries[start:end]})
	}
	return pages
}

// FileName returns the page's output file name, e.g. Top1-1000.csv.
func (p Page) FileName() string {
	return fmt.Sprintf("Top%d-%d.csv", p.Start, p.End)
}
