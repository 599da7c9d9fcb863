package naming

// adjectives and nouns follow the Docker container name generator:
// moods and traits paired with scientists and engineers.
var adjectives = []string{
	"admiring", "adoring", "agitated", "amazing", "angry", "awesome", "bold",
	"brave", "clever", "compassionate", "condescending", "confident", "cranky",
	"dazzling", "determined", "distracted", "dreamy", "eager", "ecstatic",
	"elastic", "elated", "elegant", "eloquent", "epic", "fervent", "festive",
	"focused", "friendly", "frosty", "funny", "gallant", "gifted", "goofy",
	"gracious", "happy", "hopeful", "hungry", "infallible", "inspiring",
	"intelligent", "jolly", "jovial", "keen", "kind", "laughing", "loving",
	"lucid", "magical", "modest", "mystifying", "naughty", "nervous", "nice",
	"nifty", "nostalgic", "objective", "optimistic", "peaceful", "pedantic",
	"pensive", "practical", "priceless", "quirky", "quizzical", "relaxed",
	"reverent", "romantic", "serene", "sharp", "silly", "sleepy", "stoic",
	"strange", "stupefied", "suspicious", "sweet", "tender", "thirsty",
	"trusting", "upbeat", "vibrant", "vigilant", "vigorous", "wizardly",
	"wonderful", "xenodochial", "youthful", "zealous", "zen",
}

var nouns = []string{
	"albattani", "allen", "archimedes", "babbage", "banach", "bardeen",
	"bartik", "bell", "blackwell", "bohr", "booth", "brown", "carson", "clarke",
	"curie", "darwin", "davinci", "dijkstra", "einstein", "engelbart", "euclid",
	"euler", "fermat", "fermi", "feynman", "franklin", "galileo", "gates",
	"goldberg", "hamilton", "hawking", "heisenberg", "hopper", "hugle",
	"hypatia", "johnson", "joliot", "kalam", "keller", "khorana", "kilby",
	"knuth", "lalande", "lamarr", "leakey", "lovelace", "lumiere", "mayer",
	"mccarthy", "mcclintock", "meitner", "mendel", "mestorf", "morse",
	"murdock", "newton", "nightingale", "nobel", "noether", "pasteur", "payne",
	"perlman", "pike", "poincare", "ptolemy", "raman", "ride", "ritchie",
	"rosalind", "saha", "sammet", "shaw", "sinoussi", "snyder", "stallman",
	"stonebraker", "swanson", "tesla", "thompson", "torvalds", "turing",
	"villani", "volhard", "wiles", "wilson", "wozniak", "wright", "yonath",
}
