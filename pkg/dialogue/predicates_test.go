package dialogue

import (
	"testing"

	"admissions-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestIsTopicChange(t *testing.T) {
	tests := []struct {
		name    string
		message string
		flow    store.Pipeline
		want    bool
	}{
		{"exit phrase", "never mind", store.PipelineCutoff, true},
		{"cancel", "cancel", store.PipelineContact, true},
		{"documents escape", "what documents are required", store.PipelineCutoff, true},
		{"info question during cutoff", "hostel fees please", store.PipelineCutoff, true},
		{"single info word stays", "hostel", store.PipelineCutoff, false},
		{"cutoff question during contact", "what is the cutoff", store.PipelineContact, true},
		{"full question heuristic", "how do I reach the college campus", store.PipelineNone, true},
		{"slot answer branch", "CSE", store.PipelineCutoff, false},
		{"slot answer category", "OC", store.PipelineCutoff, false},
		{"slot answer year", "2023", store.PipelineCutoff, false},
		{"short name", "Ravi Kumar", store.PipelineContact, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTopicChange(tt.message, tt.flow))
		})
	}
}

func TestIsContactRequest(t *testing.T) {
	assert.True(t, IsContactRequest("I want to talk to admission team"))
	assert.True(t, IsContactRequest("please call me back"))
	assert.True(t, IsContactRequest("not satisfied with this answer"))
	assert.False(t, IsContactRequest("what is the cutoff for CSE"))
}

func TestIsDocumentsRequest(t *testing.T) {
	assert.True(t, IsDocumentsRequest("what documents are required for admission"))
	assert.True(t, IsDocumentsRequest("docs"))
	assert.True(t, IsDocumentsRequest("certificates needed"))
	assert.False(t, IsDocumentsRequest("how are the placements"))
}

func TestIsTrendRequest(t *testing.T) {
	assert.True(t, IsTrendRequest("show me the trend"))
	assert.True(t, IsTrendRequest("how has it changed over the years"))
	assert.False(t, IsTrendRequest("cutoff for CSE 2023"))
}

func TestYesNoResponses(t *testing.T) {
	assert.True(t, IsYesResponse("yes please"))
	assert.True(t, IsYesResponse("go ahead"))
	assert.True(t, IsNoResponse("nope"))
	assert.True(t, IsNoResponse("not now"))
	assert.False(t, IsYesResponse("never"))
}

func TestDetectURLCategory(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"international student admission", "international_admissions"},
		{"college bus routes", "transport"},
		{"library timings", "library"},
		{"cse department details", "dept_cse"},
		{"artificial intelligence courses", "dept_cse_aiml_iot"},
		{"information technology department", "dept_it"},
		{"mechanical engineering", "dept_mech"},
		{"placement statistics", "placements"},
		{"scholarship options", "scholarship"},
		{"tuition fee details", "fees"},
		{"hostel warden contact", "hostel"},
		{"random question", "home"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectURLCategory(tt.query))
		})
	}
}

func TestLacksInformation(t *testing.T) {
	assert.True(t, LacksInformation("Sorry, I don't have that specific information right now."))
	assert.True(t, LacksInformation("This is not available in my database."))
	assert.False(t, LacksInformation("The B.Tech fee is around 1.5 lakh per year."))
}

func TestDetectClarificationCategory(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"vague fees", "fees", "fees"},
		{"vague fees question", "tell me about fees", "fees"},
		{"specific fee excluded", "hostel fee details", ""},
		{"vague placements", "placements", "placements"},
		{"specific placement excluded", "highest package last year", ""},
		{"vague hostel", "hostel", "hostel"},
		{"long query skipped", "can you please tell me everything about the fee structure for all programmes in detail", ""},
		{"unrelated", "library timings", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectClarificationCategory(tt.message))
		})
	}
}

func TestResolveClarification(t *testing.T) {
	refined, ok := ResolveClarification("1", "fees")
	assert.True(t, ok)
	assert.Contains(t, refined, "B.Tech fee structure")

	refined, ok = ResolveClarification("the mca one", "fees")
	assert.True(t, ok)
	assert.Contains(t, refined, "MCA fee structure")

	// Longest matching key wins over shorter substrings.
	refined, ok = ResolveClarification("fee reimbursement please", "fees")
	assert.True(t, ok)
	assert.Contains(t, refined, "scholarships and fee reimbursement")

	_, ok = ResolveClarification("something unrelated", "fees")
	assert.False(t, ok)
}

func TestResolveProgramSelection(t *testing.T) {
	assert.Equal(t, "B.Tech", ResolveProgramSelection("1"))
	assert.Equal(t, "B.Tech", ResolveProgramSelection("btech"))
	assert.Equal(t, "M.Tech", ResolveProgramSelection("2) M.Tech please"))
	assert.Equal(t, "MCA", ResolveProgramSelection("mca"))
	assert.Equal(t, "", ResolveProgramSelection("phd"))
}
