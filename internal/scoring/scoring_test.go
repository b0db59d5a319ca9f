package scoring

import (
	"strings"
	"testing"
	"time"

	"github.com/ampmbg/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullInput(now time.Time) Input {
	return Input{
		Relation:      "teacher",
		ProvinceID:    "32",
		CityID:        "3273",
		DistrictID:    "327301",
		Location:      "SDN 1 Coblong",
		IncidentDate:  now.Add(-24 * time.Hour),
		SubmittedAt:   now,
		Description:   strings.Repeat("Makanan yang dibagikan hari ini basi dan berbau. ", 5),
		FileCount:     3,
		PriorReports:  2,
		PriorResolved: 2,
		Corroborating: 3,
	}
}

func TestScore_MaximumInput(t *testing.T) {
	res := Score(fullInput(time.Now()))

	assert.Equal(t, TotalMax, res.TotalScore)
	assert.Equal(t, models.CredibilityHigh, res.Tier)
	for _, c := range []Component{
		res.Relation, res.LocationTime, res.Evidence,
		res.Narrative, res.ReporterHistory, res.Similarity,
	} {
		assert.Equal(t, ComponentMax, c.Value)
		assert.Equal(t, ComponentMax, c.Max)
		assert.NotEmpty(t, c.Label)
	}
}

func TestScore_EmptyInput(t *testing.T) {
	res := Score(Input{SubmittedAt: time.Now()})

	assert.Equal(t, 0, res.Relation.Value)
	assert.Equal(t, 0, res.LocationTime.Value, "zero incident date reads as stale")
	assert.Equal(t, 0, res.Evidence.Value)
	assert.Equal(t, 0, res.Narrative.Value)
	assert.Equal(t, 1, res.ReporterHistory.Value, "first-time reporter starts neutral")
	assert.Equal(t, 0, res.Similarity.Value)
	assert.Equal(t, models.CredibilityLow, res.Tier)
}

func TestTier_Boundaries(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{0, models.CredibilityLow},
		{6, models.CredibilityLow},
		{7, models.CredibilityMedium},
		{11, models.CredibilityMedium},
		{12, models.CredibilityHigh},
		{18, models.CredibilityHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tier(tt.total), "total=%d", tt.total)
	}
}

func TestScoreRelation(t *testing.T) {
	tests := []struct {
		relation string
		want     int
	}{
		{"student", 3},
		{"teacher", 3},
		{"principal", 3},
		{"parent", 2},
		{"supplier", 2},
		{"community", 1},
		{"other", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoreRelation(tt.relation), "relation=%q", tt.relation)
	}
}

func TestScoreLocationTime(t *testing.T) {
	now := time.Now()

	in := fullInput(now)
	assert.Equal(t, 3, scoreLocationTime(in))

	in.DistrictID = ""
	in.Location = ""
	assert.Equal(t, 2, scoreLocationTime(in), "district or free-form location required")

	in = fullInput(now)
	in.IncidentDate = now.Add(time.Hour)
	assert.Equal(t, 2, scoreLocationTime(in), "future incident forfeits the time point")

	in = fullInput(now)
	in.IncidentDate = now.Add(-91 * 24 * time.Hour)
	assert.Equal(t, 2, scoreLocationTime(in), "stale incident forfeits the time point")

	in = fullInput(now)
	in.CityID = ""
	assert.Equal(t, 2, scoreLocationTime(in), "province alone does not count")
}

func TestScoreNarrative(t *testing.T) {
	short := "Makanan basi."
	assert.Equal(t, 0, scoreNarrative(short))

	medium := strings.Repeat("Nasi kotak yang diterima siswa sudah berlendir. ", 2)
	require.GreaterOrEqual(t, len([]rune(medium)), 50)
	require.Less(t, len([]rune(medium)), 200)
	assert.Equal(t, 2, scoreNarrative(medium))

	long := strings.Repeat("Nasi kotak yang diterima siswa sudah berlendir. ", 5)
	require.GreaterOrEqual(t, len([]rune(long)), 200)
	assert.Equal(t, 3, scoreNarrative(long))

	spammy := "Tolong diperiksa segeraaaaa " + strings.Repeat("makanan tidak layak ", 3)
	require.GreaterOrEqual(t, len([]rune(spammy)), 50)
	assert.Equal(t, 1, scoreNarrative(spammy), "repeated character run drops the quality point")

	shouty := "TOLONG PERIKSA MAKANAN BASII sekolah kami menerima makanan tidak layak"
	assert.Equal(t, 1, scoreNarrative(shouty), "three or more shouted words drop the quality point")
}

func TestHasRepeatedRun(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"tolong segeraaaaa", true},
		{"kenapa bisa begini????", true},
		{"BASIIII", true},
		{"makanan basi dan berbau", false},
		{"hmmm", false},
		{"....", true},
		{"...", false},
		{"    jarak    spasi    ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hasRepeatedRun(tt.text), "text=%q", tt.text)
	}
}

func TestScoreReporterHistory(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want int
	}{
		{"first report", Input{}, 1},
		{"open priors only", Input{PriorReports: 3}, 1},
		{"one resolved", Input{PriorReports: 1, PriorResolved: 1}, 2},
		{"two resolved", Input{PriorReports: 2, PriorResolved: 2}, 3},
		{"any invalid zeroes it", Input{PriorReports: 3, PriorResolved: 2, PriorInvalid: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreReporterHistory(tt.in))
		})
	}
}

func TestClampedComponents(t *testing.T) {
	now := time.Now()

	in := fullInput(now)
	in.FileCount = 12
	in.Corroborating = 40
	res := Score(in)
	assert.Equal(t, ComponentMax, res.Evidence.Value)
	assert.Equal(t, ComponentMax, res.Similarity.Value)

	in.FileCount = 0
	in.Corroborating = 0
	res = Score(in)
	assert.Equal(t, 0, res.Evidence.Value)
	assert.Equal(t, 0, res.Similarity.Value)
}
