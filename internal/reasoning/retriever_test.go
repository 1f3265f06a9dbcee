package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDocs = []Document{
	{Source: "visiting-policy", Content: "Visiting hours are 9am to 5pm daily."},
	{Source: "appointments", Content: "Appointments can be booked by phone or at reception."},
	{Source: "pharmacy-services", Content: "The pharmacy dispenses prescriptions daily from 8am."},
}

func TestRetriever_RanksByOverlap(t *testing.T) {
	r := NewRetriever(testDocs)

	docs := r.Retrieve("when can I collect prescriptions from the pharmacy", 3)
	require.NotEmpty(t, docs)
	assert.Equal(t, "pharmacy-services", docs[0].Source)
}

func TestRetriever_CapsResults(t *testing.T) {
	r := NewRetriever(testDocs)

	docs := r.Retrieve("daily", 1)
	assert.LessOrEqual(t, len(docs), 1)
}

func TestRetriever_NoMatch(t *testing.T) {
	r := NewRetriever(testDocs)

	assert.Empty(t, r.Retrieve("xylophone lessons", 3))
	assert.Empty(t, r.Retrieve("", 3))
}
