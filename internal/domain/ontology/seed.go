package ontology

func Seed() Definition {
	return Definition{
		Skills: map[string]SkillDef{
			// languages
			"python":     {Category: "backend", Level: LevelIntermediate, Related: []string{"django", "flask", "pandas", "numpy"}},
			"javascript": {Category: "frontend", Level: LevelIntermediate, Related: []string{"react", "node", "vue", "angular"}},
			"java":       {Category: "backend", Level: LevelIntermediate, Related: []string{"spring", "hibernate", "maven"}},
			"sql":        {Category: "database", Level: LevelBeginner, Related: []string{"mysql", "postgresql", "oracle"}},
			"go":         {Category: "backend", Level: LevelAdvanced, Related: []string{"kubernetes", "docker", "microservices"}},
			"rust":       {Category: "systems", Level: LevelAdvanced, Related: []string{"cargo", "tokio", "actix"}},

			// frameworks
			"react":   {Category: "frontend", Level: LevelIntermediate, Related: []string{"javascript", "redux", "jsx"}},
			"django":  {Category: "backend", Level: LevelIntermediate, Related: []string{"python", "orm", "mvc"}},
			"spring":  {Category: "backend", Level: LevelIntermediate, Related: []string{"java", "hibernate", "mvc"}},
			"express": {Category: "backend", Level: LevelIntermediate, Related: []string{"javascript", "node", "middleware"}},
			"flask":   {Category: "backend", Level: LevelBeginner, Related: []string{"python", "jinja2", "werkzeug"}},

			// databases
			"orm":        {Category: "database", Level: LevelIntermediate, Related: []string{"sql", "postgresql", "mysql"}},
			"mysql":      {Category: "database", Level: LevelIntermediate, Related: []string{"sql", "innodb", "replication"}},
			"postgresql": {Category: "database", Level: LevelIntermediate, Related: []string{"sql", "json", "indexing"}},
			"mongodb":    {Category: "nosql", Level: LevelIntermediate, Related: []string{"document", "aggregation", "sharding"}},
			"redis":      {Category: "cache", Level: LevelIntermediate, Related: []string{"memory", "pubsub", "clustering"}},

			// cloud and containers
			"aws":        {Category: "cloud", Level: LevelIntermediate, Related: []string{"ec2", "s3", "lambda", "rds"}},
			"azure":      {Category: "cloud", Level: LevelIntermediate, Related: []string{"vm", "storage", "functions", "sql"}},
			"gcp":        {Category: "cloud", Level: LevelIntermediate, Related: []string{"compute", "storage", "functions", "bigquery"}},
			"docker":     {Category: "containerization", Level: LevelIntermediate, Related: []string{"kubernetes", "containers", "images"}},
			"kubernetes": {Category: "orchestration", Level: LevelAdvanced, Related: []string{"docker", "pods", "services", "deployments"}},

			// tools
			"git":       {Category: "version_control", Level: LevelBeginner, Related: []string{"github", "gitlab", "branching"}},
			"jenkins":   {Category: "ci_cd", Level: LevelIntermediate, Related: []string{"pipeline", "automation", "deployment"}},
			"terraform": {Category: "infrastructure", Level: LevelAdvanced, Related: []string{"iac", "aws", "azure", "gcp"}},
		},
		Jobs: map[string]JobDef{
			"software_engineer": {
				Required:        []string{"programming", "algorithms", "data_structures"},
				Preferred:       []string{"testing", "debugging", "code_review"},
				ExperienceLevel: "mid",
				RelatedRoles:    []string{"backend_engineer", "frontend_engineer", "fullstack_engineer"},
			},
			"data_scientist": {
				Required:        []string{"python", "statistics", "machine_learning"},
				Preferred:       []string{"pandas", "scikit-learn", "tensorflow"},
				ExperienceLevel: "mid",
				RelatedRoles:    []string{"data_analyst", "ml_engineer", "research_scientist"},
			},
			"devops_engineer": {
				Required:        []string{"docker", "kubernetes", "aws"},
				Preferred:       []string{"terraform", "jenkins", "monitoring"},
				ExperienceLevel: "mid",
				RelatedRoles:    []string{"sre", "cloud_engineer", "platform_engineer"},
			},
			"frontend_developer": {
				Required:        []string{"javascript", "html", "css"},
				Preferred:       []string{"react", "vue", "angular"},
				ExperienceLevel: "junior",
				RelatedRoles:    []string{"ui_developer", "ux_developer", "web_developer"},
			},
		},
	}
}

func LearningSteps(level Level) []string {
	switch level {
	case LevelBeginner:
		return []string{"Learn basics", "Practice exercises", "Build simple projects"}
	case LevelIntermediate:
		return []string{"Review fundamentals", "Advanced concepts", "Real-world projects"}
	default:
		return []string{"Expert-level concepts", "Complex projects", "Mentor others"}
	}
}
