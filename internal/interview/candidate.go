package interview

// Candidate is the aggregate filled over the course of one session. Scalar
// fields start empty and are written at most once, by either user input or
// resume extraction; TechStack grows by union and never holds duplicates.
type Candidate struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	ExperienceYears string   `json:"experience"`
	DesiredPosition string   `json:"desired_position"`
	Location        string   `json:"location"`
	TechStack       []string `json:"tech_stack"`
	ResumeText      string   `json:"-"`
	ResumeFilename  string   `json:"resume_filename,omitempty"`
}

// FactRecord holds candidate facts recovered from a resume. The shape mirrors
// Candidate minus the resume fields. TechStack is decoded separately because
// the model may return it as either a list or a delimited string.
type FactRecord struct {
	Name       string `mapstructure:"name"`
	Email      string `mapstructure:"email"`
	Phone      string `mapstructure:"phone"`
	Experience string `mapstructure:"experience"`
	Position   string `mapstructure:"position"`
	Location   string `mapstructure:"location"`

	TechStack []string `mapstructure:"-"`
}

// mergeFacts fills empty candidate fields from resume facts. User-supplied
// values always win; the tech stack is merged by union.
func mergeFacts(c *Candidate, f *FactRecord) {
	if f == nil {
		return
	}
	if c.Name == "" {
		c.Name = f.Name
	}
	if c.Email == "" {
		c.Email = f.Email
	}
	if c.Phone == "" {
		c.Phone = f.Phone
	}
	if c.ExperienceYears == "" {
		c.ExperienceYears = f.Experience
	}
	if c.DesiredPosition == "" {
		c.DesiredPosition = f.Position
	}
	if c.Location == "" {
		c.Location = f.Location
	}
	c.TechStack = MergeTechStacks(c.TechStack, f.TechStack)
}
