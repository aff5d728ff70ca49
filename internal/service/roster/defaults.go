package roster

import "github.com/Domenick1991/opdqueue/internal/domain"

// DefaultDoctors is the clinic roster written on first read of an empty store.
func DefaultDoctors() []domain.Doctor {
	return []domain.Doctor{
		{
			ID:             "1",
			Name:           "Dr. Antaryami Sahoo, M.D.",
			Qualifications: "Professor of Skin, V.D. & Leprosy",
			Specialty:      "Skin & VD Specialist",
			Hospital:       "Skin Care OPD, Brahmapur",
			Image:          "https://images.unsplash.com/photo-1612349317150-e413f6a5b16d?auto=format&fit=crop&q=80&w=400",
			Timing:         "Mon-Sat: 09:00-18:00, Sun: 09:00-10:00",
			Fee:            500,
			SlotGap:        10,
			MaxTokens:      50,
			IsActive:       true,
		},
		{
			ID:             "2",
			Name:           "Dr. Narendranath Nagoti",
			Qualifications: "M.S., DNB (Surgical Gastroenterology)",
			Specialty:      "Surgical Gastroenterologist",
			Hospital:       "Pinnacle Hospital, Visakhapatnam",
			Image:          "https://images.unsplash.com/photo-1622253692010-333f2da6031d?auto=format&fit=crop&q=80&w=400",
			Timing:         "Visiting Consultant (Check Schedule)",
			Fee:            1000,
			SlotGap:        15,
			MaxTokens:      30,
			IsActive:       true,
		},
		{
			ID:             "3",
			Name:           "Dr. M. Navya",
			Qualifications: "MBBS, MD (Radiation Oncology)",
			Specialty:      "Pain & Palliative Care Specialist",
			Hospital:       "KIMS Hospital, Visakhapatnam",
			Image:          "https://images.unsplash.com/photo-1594824476967-48c8b964273f?auto=format&fit=crop&q=80&w=400",
			Timing:         "Every Month 1st & 3rd Wednesday, 12:30PM to 4:00PM",
			Fee:            800,
			SlotGap:        20,
			MaxTokens:      20,
			IsActive:       true,
		},
		{
			ID:             "4",
			Name:           "Dr. Pavan Kumar Rudrabhatla",
			Qualifications: "M.D., D.M. (Neurology) SCTIMST",
			Specialty:      "Neurologist & Epilepsy Specialist",
			Hospital:       "Medicover Hospital, Visakhapatnam",
			Image:          "https://images.unsplash.com/photo-1559839734-2b71f1536783?auto=format&fit=crop&q=80&w=400",
			Timing:         "Every Month 4th Saturday 10:30AM to 3:00PM",
			Fee:            1200,
			SlotGap:        15,
			MaxTokens:      25,
			IsActive:       true,
		},
		{
			ID:             "5",
			Name:           "Dr. M. Sharanya",
			Qualifications: "M.B.B.S., M.D (Pulmonology)",
			Specialty:      "Pulmonologist (T.B & Chest Specialist)",
			Hospital:       "KIMS-Icon Hospital, Visakhapatnam",
			Image:          "https://images.unsplash.com/photo-1527613426441-4da17471b66d?auto=format&fit=crop&q=80&w=400",
			Timing:         "Every Month 4th Wednesday, 10:30AM to 3:00PM",
			Fee:            900,
			SlotGap:        15,
			MaxTokens:      25,
			IsActive:       true,
		},
		{
			ID:             "6",
			Name:           "Dr. T. Vinay Bhushanam",
			Qualifications: "M.S., M.Ch.(Neuro) NIMS",
			Specialty:      "Neuro Surgeon & Interventional Neurologist",
			Hospital:       "Medicover Hospital, Visakhapatnam",
			Image:          "https://images.unsplash.com/photo-1612272323027-4b2422360541?auto=format&fit=crop&q=80&w=400",
			Timing:         "Every Month 2nd Monday 10:00AM to 3:00PM",
			Fee:            1500,
			SlotGap:        20,
			MaxTokens:      20,
			IsActive:       true,
		},
	}
}
