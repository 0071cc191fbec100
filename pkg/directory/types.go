package directory

const (
	DefaultPageLimit   = 50
	DefaultSearchLimit = 100
)

// Entry is a name tagged with its position in the corpus.
type Entry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Snapshot struct {
	Index      map[string]int `json:"index"`
	TotalUsers int            `json:"totalUsers"`
}

type Page struct {
	Data    []Entry `json:"data"`
	Offset  int     `json:"offset"`
	Limit   int     `json:"limit"`
	Total   int     `json:"total"`
	HasMore bool    `json:"hasMore"`
}

type LetterPage struct {
	Data       []Entry `json:"data"`
	Letter     string  `json:"letter"`
	Offset     int     `json:"offset"`
	Limit      int     `json:"limit"`
	StartIndex int     `json:"startIndex"`
	Total      int     `json:"total"`
	// BucketSize is the number of names under Letter, for page math.
	BucketSize int `json:"bucketSize"`
}

type SearchResult struct {
	Data         []Entry `json:"data"`
	Query        string  `json:"query"`
	ResultsCount int     `json:"resultsCount"`
}
