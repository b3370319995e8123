package learnify

// Built-in defaults, loaded the first time an empty database is opened
// so the app is usable without any setup.

func defaultUsers() []User {
	return []User{
		{ID: "student1", Email: "student@example.com", Role: RoleStudent, Name: "Alex Doe", Password: "password"},
		{ID: "teacher1", Email: "teacher@example.com", Role: RoleTeacher, Name: "Dr. Evelyn Reed", Password: "password"},
	}
}

func defaultQuizzes() []Quiz {
	return []Quiz{
		{
			ID: "1", Title: "Algebra Basics", Subject: "Math", SkillLevel: SkillBeginner, CreatedBy: "teacher1",
			Questions: []Question{
				{ID: "q1", Text: "What is 2 + 2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: "4"},
				{ID: "q2", Text: "What is x in x + 5 = 10?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: "5"},
			},
		},
		{
			ID: "2", Title: "Introduction to Photosynthesis", Subject: "Science", SkillLevel: SkillBeginner, CreatedBy: "teacher1",
			Questions: []Question{
				{ID: "q1", Text: "What is the primary pigment used in photosynthesis?", Options: []string{"Chlorophyll", "Melanin", "Hemoglobin", "Carotene"}, CorrectAnswer: "Chlorophyll"},
				{ID: "q2", Text: "Which gas is released during photosynthesis?", Options: []string{"Carbon Dioxide", "Nitrogen", "Oxygen", "Hydrogen"}, CorrectAnswer: "Oxygen"},
				{ID: "q3", Text: "What is the main source of energy for photosynthesis?", Options: []string{"Geothermal Heat", "Sunlight", "Wind", "Water"}, CorrectAnswer: "Sunlight"},
			},
		},
		{
			ID: "3", Title: "World War II Key Events", Subject: "History", SkillLevel: SkillIntermediate, CreatedBy: "teacher1",
			Questions: []Question{
				{ID: "q1", Text: "In which year did World War II begin?", Options: []string{"1938", "1939", "1940", "1941"}, CorrectAnswer: "1939"},
				{ID: "q2", Text: "The D-Day landings took place in which region of France?", Options: []string{"Brittany", "Alsace", "Normandy", "Provence"}, CorrectAnswer: "Normandy"},
			},
		},
		{
			ID: "4", Title: "Advanced Calculus", Subject: "Math", SkillLevel: SkillAdvanced, CreatedBy: "teacher1",
			Questions: []Question{
				{ID: "q1", Text: "What is the derivative of x^2?", Options: []string{"x", "2x", "x^3", "2"}, CorrectAnswer: "2x"},
			},
		},
	}
}

// seedIfEmpty loads the defaults on first access. An existing user
// collection means the database has been used before and is left alone.
func (s *Store) seedIfEmpty() error {
	n, err := s.countUsers()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, u := range defaultUsers() {
		user := u
		if err := s.CreateUser(&user); err != nil {
			return err
		}
	}

	// Quizzes are seeded together with users; a partially seeded
	// database would otherwise look non-empty on the next open.
	if qn, err := s.countQuizzes(); err != nil {
		return err
	} else if qn > 0 {
		return nil
	}
	for _, q := range defaultQuizzes() {
		quiz := q
		if err := s.CreateQuiz(&quiz); err != nil {
			return err
		}
	}
	return nil
}
