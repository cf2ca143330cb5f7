package cv

// SampleRecord returns the example résumé offered by "load example".
func SampleRecord() Record {
	return Record{
		Personal: Personal{
			FullName:   "Marie Dubois",
			Profession: "Développeuse Full Stack",
			Email:      "marie.dubois@email.com",
			Phone:      "+33 6 12 34 56 78",
			Location:   "Paris, France",
			Summary:    "Développeuse passionnée avec 5 ans d'expérience dans le développement web. Spécialisée en React et Node.js, j'aime créer des applications performantes et intuitives. Toujours à la recherche de nouveaux défis techniques et opportunités d'apprentissage.",
			LinkedIn:   "https://linkedin.com/in/mariedubois",
			GitHub:     "https://github.com/mariedubois",
			Portfolio:  "https://mariedubois.dev",
		},
		Experiences: []Experience{
			{
				ID:          1,
				Title:       "Développeuse Full Stack Senior",
				Company:     "TechCorp",
				Period:      "2020 - Présent",
				Description: "Responsable du développement de l'application principale. Architecture microservices, mise en place de CI/CD, mentorat des développeurs juniors.",
			},
			{
				ID:          2,
				Title:       "Développeuse Frontend",
				Company:     "StartupX",
				Period:      "2018 - 2020",
				Description: "Développement d'interfaces utilisateur avec React. Collaboration avec l'équipe design pour créer une expérience utilisateur optimale.",
			},
		},
		Educations: []Education{
			{
				ID:          1,
				Degree:      "Master en Informatique",
				School:      "Université Paris-Saclay",
				Year:        "2018",
				Description: "Spécialisation en génie logiciel et intelligence artificielle.",
			},
			{
				ID:          2,
				Degree:      "Licence en Informatique",
				School:      "Université Paris Descartes",
				Year:        "2016",
				Description: "Programmation orientée objet, bases de données, algorithmique.",
			},
		},
		Skills: []string{"JavaScript", "React", "Node.js", "TypeScript", "Python", "Docker", "AWS", "Git", "MongoDB", "PostgreSQL"},
		Languages: []Language{
			{ID: 1, Name: "Français", Level: 5},
			{ID: 2, Name: "Anglais", Level: 4},
			{ID: 3, Name: "Espagnol", Level: 3},
		},
		Interests: []string{"Photographie", "Voyages", "Yoga", "Lecture", "Cuisine", "Tech"},
		Template:  TemplateModern,
	}
}
