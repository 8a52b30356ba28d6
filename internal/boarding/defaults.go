package boarding

// Default returns the built-in directory for the cities the demo catalog
// serves.
func Default() *StaticDirectory {
	return NewStaticDirectory(
		map[string][]Point{
			"Dhaka": {
				{Name: "Sayedabad Bus Terminal", Address: "Sayedabad, Dhaka", Time: "07:30 AM"},
				{Name: "Gabtoli Bus Terminal", Address: "Gabtoli, Dhaka", Time: "08:00 AM"},
				{Name: "Mohakhali Bus Terminal", Address: "Mohakhali, Dhaka", Time: "08:15 AM"},
				{Name: "Kalyanpur Bus Stand", Address: "Kalyanpur, Dhaka", Time: "08:30 AM"},
				{Name: "Abdullahpur Bus Stop", Address: "Abdullahpur, Dhaka", Time: "08:45 AM"},
			},
			"Rajshahi": {
				{Name: "Rajshahi Bus Terminal", Address: "New Market, Rajshahi", Time: "07:45 AM"},
				{Name: "C&B More Point", Address: "C&B More, Rajshahi", Time: "08:00 AM"},
				{Name: "Shaheb Bazar", Address: "Shaheb Bazar, Rajshahi", Time: "08:15 AM"},
				{Name: "Railway Station", Address: "Railway Station, Rajshahi", Time: "08:30 AM"},
			},
			"Chittagong": {
				{Name: "Oxygen Bus Terminal", Address: "Oxygen, Chittagong", Time: "08:00 AM"},
				{Name: "Bahaddarhat Bus Stand", Address: "Bahaddarhat, Chittagong", Time: "08:15 AM"},
				{Name: "New Market", Address: "New Market, Chittagong", Time: "08:30 AM"},
				{Name: "Wasa Circle", Address: "Wasa Circle, Chittagong", Time: "08:45 AM"},
			},
			"Sylhet": {
				{Name: "Kadamtoli Bus Terminal", Address: "Kadamtoli, Sylhet", Time: "07:30 AM"},
				{Name: "Bandarbazar Point", Address: "Bandarbazar, Sylhet", Time: "07:45 AM"},
				{Name: "Zindabazar", Address: "Zindabazar, Sylhet", Time: "08:00 AM"},
				{Name: "Amberkhana", Address: "Amberkhana, Sylhet", Time: "08:15 AM"},
			},
		},
		map[string][]Point{
			"Dhaka": {
				{Name: "Sayedabad Bus Terminal", Address: "Sayedabad, Dhaka", Time: "01:30 PM"},
				{Name: "Gabtoli Bus Terminal", Address: "Gabtoli, Dhaka", Time: "01:45 PM"},
				{Name: "Mohakhali Bus Terminal", Address: "Mohakhali, Dhaka", Time: "02:00 PM"},
				{Name: "Kalyanpur Bus Stand", Address: "Kalyanpur, Dhaka", Time: "02:15 PM"},
			},
			"Rajshahi": {
				{Name: "Rajshahi Bus Terminal", Address: "New Market, Rajshahi", Time: "01:30 PM"},
				{Name: "C&B More Point", Address: "C&B More, Rajshahi", Time: "01:45 PM"},
				{Name: "Shaheb Bazar", Address: "Shaheb Bazar, Rajshahi", Time: "02:00 PM"},
				{Name: "Railway Station", Address: "Railway Station, Rajshahi", Time: "02:15 PM"},
			},
			"Chittagong": {
				{Name: "Oxygen Bus Terminal", Address: "Oxygen, Chittagong", Time: "03:00 PM"},
				{Name: "Bahaddarhat Bus Stand", Address: "Bahaddarhat, Chittagong", Time: "03:15 PM"},
				{Name: "New Market", Address: "New Market, Chittagong", Time: "03:30 PM"},
				{Name: "Wasa Circle", Address: "Wasa Circle, Chittagong", Time: "03:45 PM"},
			},
			"Sylhet": {
				{Name: "Kadamtoli Bus Terminal", Address: "Kadamtoli, Sylhet", Time: "12:30 PM"},
				{Name: "Bandarbazar Point", Address: "Bandarbazar, Sylhet", Time: "12:45 PM"},
				{Name: "Zindabazar", Address: "Zindabazar, Sylhet", Time: "01:00 PM"},
				{Name: "Amberkhana", Address: "Amberkhana, Sylhet", Time: "01:15 PM"},
			},
		},
	)
}
