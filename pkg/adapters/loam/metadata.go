package loam

import "github.com/aretw0/intake/internal/dto"

// QuestionMetadata is the frontmatter of a question document.
// The document body, when present, becomes the question description.
type QuestionMetadata = dto.QuestionSpec
