package taxonomy

// Default returns the built-in content taxonomy. Loaded once at startup;
// callers must treat the result as read-only.
func Default() *Taxonomy {
	return New("2024.1", []Pillar{
		{
			ID:            "P1",
			NamePrimary:   "Mind & Learning",
			NameSecondary: "Cognition, study methods, mental models",
			Topics: []Topic{
				{ID: "P1.01", Name: "Focus & Deep Work"},
				{ID: "P1.02", Name: "Memory & Note-taking"},
				{ID: "P1.03", Name: "Critical Thinking & Mental Models"},
				{ID: "P1.04", Name: "Reading & Learning Techniques"},
				{ID: "P1.05", Name: "Creativity & Ideation"},
				{ID: "P1.06", Name: "Language Learning"},
			},
		},
		{
			ID:            "P2",
			NamePrimary:   "Health & Energy",
			NameSecondary: "Physical and mental wellbeing",
			Topics: []Topic{
				{ID: "P2.01", Name: "Exercise & Strength"},
				{ID: "P2.02", Name: "Nutrition & Diet"},
				{ID: "P2.03", Name: "Sleep & Recovery"},
				{ID: "P2.04", Name: "Stress & Mental Health"},
				{ID: "P2.05", Name: "Habits & Routines"},
			},
		},
		{
			ID:            "P3",
			NamePrimary:   "Business & Wealth",
			NameSecondary: "Career, entrepreneurship, personal finance",
			Topics: []Topic{
				{ID: "P3.01", Name: "Entrepreneurship & Startups"},
				{ID: "P3.02", Name: "Career Growth & Leadership"},
				{ID: "P3.03", Name: "Marketing & Sales"},
				{ID: "P3.04", Name: "Personal Finance & Budgeting"},
				{ID: "P3.05", Name: "Investing & Retirement"},
				{ID: "P3.06", Name: "Real Estate"},
				{ID: "P3.07", Name: "Side Projects & Freelancing"},
			},
		},
		{
			ID:            "P4",
			NamePrimary:   "Relationships & Communication",
			NameSecondary: "Social skills, family, community",
			Topics: []Topic{
				{ID: "P4.01", Name: "Communication Skills"},
				{ID: "P4.02", Name: "Family & Parenting"},
				{ID: "P4.03", Name: "Friendship & Community"},
				{ID: "P4.04", Name: "Negotiation & Influence"},
			},
		},
		{
			ID:            "P5",
			NamePrimary:   "Technology & Tools",
			NameSecondary: "Software, automation, digital workflows",
			Topics: []Topic{
				{ID: "P5.01", Name: "Programming & Software"},
				{ID: "P5.02", Name: "AI & Automation"},
				{ID: "P5.03", Name: "Productivity Tools"},
				{ID: "P5.04", Name: "Security & Privacy"},
			},
		},
	})
}
