package knowledge

// DefaultRecipes 內建的預設食譜目錄（九道，涵蓋三種菜品類型與四種難度）
func DefaultRecipes() []Recipe {
	return []Recipe{
		{
			Name: "Pasta Carbonara",
			Ingredients: []Ingredient{
				{Name: "pâtes", Quantity: 300, Unit: "g"},
				{Name: "œufs", Quantity: 3, Unit: "pièces"},
				{Name: "bacon", Quantity: 150, Unit: "g"},
				{Name: "parmesan", Quantity: 50, Unit: "g"},
			},
			Instructions: []string{
				"Faire cuire les pâtes dans l'eau bouillante salée",
				"Faire revenir le bacon dans une poêle",
				"Battre les œufs avec le parmesan râpé",
				"Mélanger les pâtes chaudes avec les œufs et le bacon",
			},
			PrepMinutes: 20,
			Difficulty:  Easy,
			DishType:    MainCourse,
		},
		{
			Name: "Salade César",
			Ingredients: []Ingredient{
				{Name: "laitue romaine", Quantity: 1, Unit: "pièce"},
				{Name: "poulet", Quantity: 200, Unit: "g"},
				{Name: "parmesan", Quantity: 30, Unit: "g"},
				{Name: "croûtons", Quantity: 50, Unit: "g"},
			},
			Instructions: []string{
				"Laver et couper la laitue",
				"Griller le poulet et le couper en lamelles",
				"Mélanger la salade avec la sauce",
				"Ajouter le poulet, le parmesan et les croûtons",
			},
			PrepMinutes: 15,
			Difficulty:  VeryEasy,
			DishType:    Starter,
		},
		{
			Name: "Tiramisu",
			Ingredients: []Ingredient{
				{Name: "mascarpone", Quantity: 500, Unit: "g"},
				{Name: "œufs", Quantity: 4, Unit: "pièces"},
				{Name: "sucre", Quantity: 100, Unit: "g"},
				{Name: "café fort", Quantity: 300, Unit: "ml"},
			},
			Instructions: []string{
				"Séparer les blancs des jaunes d'œufs",
				"Mélanger jaunes, sucre et mascarpone",
				"Monter les blancs en neige et incorporer",
				"Tremper les biscuits dans le café",
				"Alterner couches de biscuits et crème",
			},
			PrepMinutes: 30,
			Difficulty:  Medium,
			DishType:    Dessert,
		},
		{
			Name: "Risotto aux Champignons",
			Ingredients: []Ingredient{
				{Name: "riz arborio", Quantity: 300, Unit: "g"},
				{Name: "champignons", Quantity: 300, Unit: "g"},
				{Name: "bouillon", Quantity: 1, Unit: "L"},
				{Name: "vin blanc", Quantity: 150, Unit: "ml"},
			},
			Instructions: []string{
				"Faire revenir les champignons",
				"Faire griller le riz",
				"Ajouter le vin blanc puis le bouillon louche par louche",
				"Remuer constamment pendant 18 minutes",
			},
			PrepMinutes: 35,
			Difficulty:  Medium,
			DishType:    MainCourse,
		},
		{
			Name: "Soupe de Tomates",
			Ingredients: []Ingredient{
				{Name: "tomates", Quantity: 800, Unit: "g"},
				{Name: "oignon", Quantity: 1, Unit: "pièce"},
				{Name: "basilic", Quantity: 10, Unit: "feuilles"},
				{Name: "crème", Quantity: 100, Unit: "ml"},
			},
			Instructions: []string{
				"Faire revenir l'oignon",
				"Ajouter les tomates et le basilic",
				"Laisser mijoter 20 minutes",
				"Mixer et ajouter la crème",
			},
			PrepMinutes: 25,
			Difficulty:  Easy,
			DishType:    Starter,
		},
		{
			Name: "Mousse au Chocolat",
			Ingredients: []Ingredient{
				{Name: "chocolat noir", Quantity: 200, Unit: "g"},
				{Name: "œufs", Quantity: 6, Unit: "pièces"},
				{Name: "sucre", Quantity: 50, Unit: "g"},
				{Name: "beurre", Quantity: 50, Unit: "g"},
			},
			Instructions: []string{
				"Faire fondre le chocolat avec le beurre",
				"Séparer les blancs des jaunes",
				"Mélanger les jaunes avec le chocolat",
				"Monter les blancs en neige avec le sucre",
				"Incorporer délicatement",
			},
			PrepMinutes: 20,
			Difficulty:  Medium,
			DishType:    Dessert,
		},
		{
			Name: "Tarte aux Pommes",
			Ingredients: []Ingredient{
				{Name: "pâte brisée", Quantity: 1, Unit: "pièce"},
				{Name: "pommes", Quantity: 4, Unit: "pièces"},
				{Name: "sucre", Quantity: 80, Unit: "g"},
				{Name: "cannelle", Quantity: 1, Unit: "c. à thé"},
			},
			Instructions: []string{
				"Étaler la pâte dans un moule",
				"Éplucher et couper les pommes",
				"Disposer les pommes sur la pâte",
				"Saupoudrer de sucre et de cannelle",
				"Cuire 40 minutes à 180°C",
			},
			PrepMinutes: 15,
			Difficulty:  Easy,
			DishType:    Dessert,
		},
		{
			Name: "Spaghetti Bolognaise",
			Ingredients: []Ingredient{
				{Name: "spaghetti", Quantity: 300, Unit: "g"},
				{Name: "viande hachée", Quantity: 300, Unit: "g"},
				{Name: "tomates concassées", Quantity: 400, Unit: "g"},
				{Name: "vin rouge", Quantity: 100, Unit: "ml"},
			},
			Instructions: []string{
				"Faire revenir la viande hachée",
				"Ajouter les tomates et le vin",
				"Laisser mijoter 30 minutes",
				"Cuire les pâtes et servir avec la sauce",
			},
			PrepMinutes: 45,
			Difficulty:  Easy,
			DishType:    MainCourse,
		},
		{
			Name: "Bœuf Bourguignon",
			Ingredients: []Ingredient{
				{Name: "bœuf à braiser", Quantity: 1000, Unit: "g"},
				{Name: "vin rouge", Quantity: 750, Unit: "ml"},
				{Name: "carottes", Quantity: 3, Unit: "pièces"},
				{Name: "lardons", Quantity: 150, Unit: "g"},
			},
			Instructions: []string{
				"Faire mariner le bœuf dans le vin rouge la veille",
				"Saisir la viande et les lardons en cocotte",
				"Ajouter les carottes et la marinade",
				"Laisser mijoter 3 heures à feu doux",
			},
			PrepMinutes: 180,
			Difficulty:  Hard,
			DishType:    MainCourse,
		},
	}
}
