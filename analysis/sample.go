package analysis

import "github.com/lixenwraith/audwanee/attachment"

// SamplePrompt is the bundled example assignment
const SamplePrompt = `How did internal divisions within the Cherokee Nation shape the events and outcomes of the 1838 removal journey known as the Trail of Tears?

In your response, be sure to:

Identify the major factions involved and their leaders.
Explain how each faction viewed the Treaty of New Echota.
Describe how these divisions impacted the logistics and experience of removal (e.g., treatment, funding, leadership, route, outcomes).`

// sampleReadingSize approximates the bundled reading's size
const sampleReadingSize = 1024000

// SampleFiles returns the reading referenced by the sample assignment
func SampleFiles() []attachment.File {
	return []attachment.File{
		attachment.Reference("CherokeeParty Moves West.pdf", attachment.MIMEPDF, sampleReadingSize),
	}
}
