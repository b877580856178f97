package domain

// LegalOpinion is a written review of an HR or labour law question,
// grounded on the indexed consultation archive.
type LegalOpinion struct {
	Query string
	Date  string

	QuerySummary   string
	RelatedLaws    string
	RelatedCases   string
	RelatedQueries string
	Answer         string

	// References are the archive records the opinion drew on.
	References []Candidate
}

// OpinionDisclaimer closes every rendered opinion.
const OpinionDisclaimer = "본 의견서는 검색된 자료를 바탕으로 작성된 참고 자료이며, 법률 자문을 대신하지 않습니다."
