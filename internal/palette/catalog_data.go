package palette

// Catalog is the curated set every round is drawn from. Hex values are unique.
var Catalog = []Entry{
	{Name: "Tomato Red", Hex: "#FF6347", HSL: HSL{H: 9, S: 100, L: 64}, RGB: RGB{R: 255, G: 99, B: 71}, Category: Warm},
	{Name: "Coral", Hex: "#FF7F50", HSL: HSL{H: 16, S: 100, L: 66}, RGB: RGB{R: 255, G: 127, B: 80}, Category: Warm},
	{Name: "Salmon", Hex: "#FA8072", HSL: HSL{H: 6, S: 93, L: 71}, RGB: RGB{R: 250, G: 128, B: 114}, Category: Warm},
	{Name: "Crimson", Hex: "#DC143C", HSL: HSL{H: 348, S: 83, L: 47}, RGB: RGB{R: 220, G: 20, B: 60}, Category: Warm},
	{Name: "Fire Brick", Hex: "#B22222", HSL: HSL{H: 0, S: 68, L: 42}, RGB: RGB{R: 178, G: 34, B: 34}, Category: Warm},
	{Name: "Orange", Hex: "#FFA500", HSL: HSL{H: 39, S: 100, L: 50}, RGB: RGB{R: 255, G: 165, B: 0}, Category: Warm},
	{Name: "Dark Orange", Hex: "#FF8C00", HSL: HSL{H: 33, S: 100, L: 50}, RGB: RGB{R: 255, G: 140, B: 0}, Category: Warm},
	{Name: "Papaya", Hex: "#FFEFD5", HSL: HSL{H: 37, S: 100, L: 92}, RGB: RGB{R: 255, G: 239, B: 213}, Category: Warm},
	{Name: "Peach", Hex: "#FFCBA4", HSL: HSL{H: 28, S: 100, L: 82}, RGB: RGB{R: 255, G: 203, B: 164}, Category: Warm},
	{Name: "Carrot", Hex: "#ED9121", HSL: HSL{H: 34, S: 85, L: 54}, RGB: RGB{R: 237, G: 145, B: 33}, Category: Warm},
	{Name: "Gold", Hex: "#FFD700", HSL: HSL{H: 51, S: 100, L: 50}, RGB: RGB{R: 255, G: 215, B: 0}, Category: Bright},
	{Name: "Lemon", Hex: "#FFFACD", HSL: HSL{H: 54, S: 100, L: 90}, RGB: RGB{R: 255, G: 250, B: 205}, Category: Bright},
	{Name: "Banana", Hex: "#FFE135", HSL: HSL{H: 53, S: 100, L: 60}, RGB: RGB{R: 255, G: 225, B: 53}, Category: Bright},
	{Name: "Corn", Hex: "#FBEC5D", HSL: HSL{H: 55, S: 95, L: 68}, RGB: RGB{R: 251, G: 236, B: 93}, Category: Bright},
	{Name: "Mustard", Hex: "#FFDB58", HSL: HSL{H: 48, S: 100, L: 67}, RGB: RGB{R: 255, G: 219, B: 88}, Category: Bright},
	{Name: "Lime", Hex: "#32CD32", HSL: HSL{H: 120, S: 61, L: 50}, RGB: RGB{R: 50, G: 205, B: 50}, Category: Cool},
	{Name: "Forest Green", Hex: "#228B22", HSL: HSL{H: 120, S: 61, L: 34}, RGB: RGB{R: 34, G: 139, B: 34}, Category: Cool},
	{Name: "Olive", Hex: "#808000", HSL: HSL{H: 60, S: 100, L: 25}, RGB: RGB{R: 128, G: 128, B: 0}, Category: Earth},
	{Name: "Avocado", Hex: "#9CAF88", HSL: HSL{H: 94, S: 25, L: 62}, RGB: RGB{R: 156, G: 175, B: 136}, Category: Earth},
	{Name: "Mint", Hex: "#98FB98", HSL: HSL{H: 120, S: 93, L: 79}, RGB: RGB{R: 152, G: 251, B: 152}, Category: Cool},
	{Name: "Sky Blue", Hex: "#87CEEB", HSL: HSL{H: 197, S: 71, L: 73}, RGB: RGB{R: 135, G: 206, B: 235}, Category: Cool},
	{Name: "Ocean Blue", Hex: "#0077BE", HSL: HSL{H: 203, S: 100, L: 37}, RGB: RGB{R: 0, G: 119, B: 190}, Category: Cool},
	{Name: "Turquoise", Hex: "#40E0D0", HSL: HSL{H: 174, S: 72, L: 56}, RGB: RGB{R: 64, G: 224, B: 208}, Category: Cool},
	{Name: "Teal", Hex: "#008080", HSL: HSL{H: 180, S: 100, L: 25}, RGB: RGB{R: 0, G: 128, B: 128}, Category: Cool},
	{Name: "Navy", Hex: "#000080", HSL: HSL{H: 240, S: 100, L: 25}, RGB: RGB{R: 0, G: 0, B: 128}, Category: Cool},
	{Name: "Lavender", Hex: "#E6E6FA", HSL: HSL{H: 240, S: 67, L: 94}, RGB: RGB{R: 230, G: 230, B: 250}, Category: Cool},
	{Name: "Plum", Hex: "#DDA0DD", HSL: HSL{H: 300, S: 47, L: 75}, RGB: RGB{R: 221, G: 160, B: 221}, Category: Cool},
	{Name: "Grape", Hex: "#6F2DA8", HSL: HSL{H: 271, S: 57, L: 42}, RGB: RGB{R: 111, G: 45, B: 168}, Category: Cool},
	{Name: "Eggplant", Hex: "#614051", HSL: HSL{H: 325, S: 20, L: 34}, RGB: RGB{R: 97, G: 64, B: 81}, Category: Earth},
	{Name: "Wine", Hex: "#722F37", HSL: HSL{H: 353, S: 42, L: 32}, RGB: RGB{R: 114, G: 47, B: 55}, Category: Earth},
	{Name: "Chocolate", Hex: "#D2691E", HSL: HSL{H: 25, S: 75, L: 47}, RGB: RGB{R: 210, G: 105, B: 30}, Category: Earth},
	{Name: "Coffee", Hex: "#6F4E37", HSL: HSL{H: 25, S: 31, L: 33}, RGB: RGB{R: 111, G: 78, B: 55}, Category: Earth},
	{Name: "Caramel", Hex: "#C68E17", HSL: HSL{H: 38, S: 78, L: 44}, RGB: RGB{R: 198, G: 142, B: 23}, Category: Earth},
	{Name: "Cinnamon", Hex: "#CD853F", HSL: HSL{H: 30, S: 59, L: 52}, RGB: RGB{R: 205, G: 133, B: 63}, Category: Earth},
	{Name: "Tan", Hex: "#D2B48C", HSL: HSL{H: 34, S: 44, L: 69}, RGB: RGB{R: 210, G: 180, B: 140}, Category: Earth},
	{Name: "Rose", Hex: "#FF69B4", HSL: HSL{H: 330, S: 100, L: 71}, RGB: RGB{R: 255, G: 105, B: 180}, Category: Warm},
	{Name: "Pink", Hex: "#FFC0CB", HSL: HSL{H: 350, S: 100, L: 88}, RGB: RGB{R: 255, G: 192, B: 203}, Category: Warm},
	{Name: "Berry", Hex: "#8B0000", HSL: HSL{H: 0, S: 100, L: 27}, RGB: RGB{R: 139, G: 0, B: 0}, Category: Warm},
	{Name: "Strawberry", Hex: "#FC5A8D", HSL: HSL{H: 343, S: 96, L: 67}, RGB: RGB{R: 252, G: 90, B: 141}, Category: Warm},
	{Name: "Blush", Hex: "#DE5D83", HSL: HSL{H: 343, S: 61, L: 61}, RGB: RGB{R: 222, G: 93, B: 131}, Category: Warm},
	{Name: "Cream", Hex: "#F5F5DC", HSL: HSL{H: 60, S: 56, L: 91}, RGB: RGB{R: 245, G: 245, B: 220}, Category: Neutral},
	{Name: "Beige", Hex: "#F5DEB3", HSL: HSL{H: 33, S: 78, L: 84}, RGB: RGB{R: 245, G: 222, B: 179}, Category: Neutral},
	{Name: "Ivory", Hex: "#FFFFF0", HSL: HSL{H: 60, S: 100, L: 97}, RGB: RGB{R: 255, G: 255, B: 240}, Category: Neutral},
	{Name: "Pearl", Hex: "#F8F6F0", HSL: HSL{H: 45, S: 44, L: 96}, RGB: RGB{R: 248, G: 246, B: 240}, Category: Neutral},
	{Name: "Sand", Hex: "#C2B280", HSL: HSL{H: 45, S: 38, L: 63}, RGB: RGB{R: 194, G: 178, B: 128}, Category: Neutral},
	{Name: "Honey", Hex: "#FFC30F", HSL: HSL{H: 46, S: 100, L: 53}, RGB: RGB{R: 255, G: 195, B: 15}, Category: Bright},
	{Name: "Amber", Hex: "#FFBF00", HSL: HSL{H: 45, S: 100, L: 50}, RGB: RGB{R: 255, G: 191, B: 0}, Category: Bright},
	{Name: "Apricot", Hex: "#FBCEB1", HSL: HSL{H: 24, S: 90, L: 84}, RGB: RGB{R: 251, G: 206, B: 177}, Category: Warm},
	{Name: "Mango", Hex: "#FFCC5C", HSL: HSL{H: 42, S: 100, L: 68}, RGB: RGB{R: 255, G: 204, B: 92}, Category: Bright},
	{Name: "Saffron", Hex: "#F4C430", HSL: HSL{H: 45, S: 89, L: 57}, RGB: RGB{R: 244, G: 196, B: 48}, Category: Bright},
	{Name: "Burgundy", Hex: "#800020", HSL: HSL{H: 345, S: 100, L: 25}, RGB: RGB{R: 128, G: 0, B: 32}, Category: Earth},
}
