package content

// Default returns the built-in tables. Each call returns a fresh copy.
func Default() *Store {
	return &Store{
		Jokes: []string{
			"Why don't scientists trust atoms? Because they make up everything! 😂",
			"What do you call a bear with no teeth? A gummy bear! 🐻",
			"Why did the math book look sad? It had too many problems! 📚",
			"What do you call a sleeping bull? A bulldozer! 😴",
			"Why don't eggs tell jokes? They'd crack each other up! 🥚",
			"What's orange and sounds like a parrot? A carrot! 🥕",
			"Why did the cookie go to the doctor? Because it felt crumbly! 🍪",
			"What do you call a dinosaur that loves to sleep? A dino-snore! 🦕",
		},
		Facts: []string{
			"🐙 Octopuses have three hearts and blue blood!",
			"🍯 Honey never spoils - archaeologists have found 3000-year-old honey that's still edible!",
			"🐧 Penguins can jump 6 feet in the air!",
			"🌙 A day on Venus is longer than its year!",
			"🦋 Butterflies taste with their feet!",
			"🐨 Koalas sleep 20-22 hours per day!",
			"🌟 There are more stars in the universe than grains of sand on all Earth's beaches!",
			"🐬 Dolphins have names for each other!",
			"🌍 Earth is the only planet not named after a god!",
			"🧠 Your brain uses about 20% of your body's energy!",
		},
		Animals: []Animal{
			{"🐶", "Dog"}, {"🐱", "Cat"}, {"🐰", "Rabbit"}, {"🐼", "Panda"},
			{"🐨", "Koala"}, {"🦊", "Fox"}, {"🐸", "Frog"}, {"🐧", "Penguin"},
			{"🦋", "Butterfly"}, {"🐢", "Turtle"}, {"🐝", "Bee"}, {"🦁", "Lion"},
			{"🐯", "Tiger"}, {"🐺", "Wolf"}, {"🦉", "Owl"}, {"🐙", "Octopus"},
		},
		Quotes: []Quote{
			{"The only way to do great work is to love what you do.", "Steve Jobs"},
			{"Life is what happens to you while you're busy making other plans.", "John Lennon"},
			{"The future belongs to those who believe in the beauty of their dreams.", "Eleanor Roosevelt"},
			{"It is during our darkest moments that we must focus to see the light.", "Aristotle"},
			{"The only impossible journey is the one you never begin.", "Tony Robbins"},
			{"In the middle of every difficulty lies opportunity.", "Albert Einstein"},
			{"Believe you can and you're halfway there.", "Theodore Roosevelt"},
		},
		Questions: []QuizQuestion{
			{
				Prompt:      "What's the largest planet in our solar system?",
				Options:     [OptionCount]string{"🌍 Earth", "🪐 Jupiter", "🔴 Mars", "💫 Venus"},
				Correct:     1,
				Explanation: "Jupiter is the largest planet - it's so big that all other planets could fit inside it!",
			},
			{
				Prompt:      "How many hearts does an octopus have?",
				Options:     [OptionCount]string{"❤️ 1", "💕 2", "💖 3", "💝 4"},
				Correct:     2,
				Explanation: "Octopuses have 3 hearts! Two pump blood to the gills, one pumps to the rest of the body.",
			},
			{
				Prompt:      "What's the fastest land animal?",
				Options:     [OptionCount]string{"🐆 Cheetah", "🦁 Lion", "🐎 Horse", "🐕 Greyhound"},
				Correct:     0,
				Explanation: "Cheetahs can run up to 70 mph (113 km/h) in short bursts!",
			},
			{
				Prompt:      "Which element has the chemical symbol 'Au'?",
				Options:     [OptionCount]string{"🥈 Silver", "🥇 Gold", "🔶 Copper", "⚡ Aluminum"},
				Correct:     1,
				Explanation: "Au comes from the Latin word 'aurum' meaning gold!",
			},
		},
	}
}
