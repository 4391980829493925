package employee

// Employee is the single persisted entity. JSON names match the file layout
// under data/ and the HTTP payloads.
type Employee struct {
	ID         string  `json:"id"`
	FullName   string  `json:"fullName"`
	Avatar     string  `json:"avatar"`
	Department string  `json:"department"`
	BirthDate  string  `json:"birthDate"`
	Salary     float64 `json:"salary"`
}

// Patch carries the fields of a partial update. Nil fields are left untouched.
// It has no ID field: identifiers are immutable once assigned.
type Patch struct {
	FullName   *string  `json:"fullName,omitempty" validate:"omitnil,min=2"`
	Avatar     *string  `json:"avatar,omitempty" validate:"omitnil,url"`
	Department *string  `json:"department,omitempty" validate:"omitnil,min=2"`
	BirthDate  *string  `json:"birthDate,omitempty" validate:"omitnil,birthdate"`
	Salary     *float64 `json:"salary,omitempty" validate:"omitnil,min=0"`
}

// Apply merges the supplied fields of p onto e and returns the result.
func (p Patch) Apply(e Employee) Employee {
	if p.FullName != nil {
		e.FullName = *p.FullName
	}
	if p.Avatar != nil {
		e.Avatar = *p.Avatar
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.BirthDate != nil {
		e.BirthDate = *p.BirthDate
	}
	if p.Salary != nil {
		e.Salary = *p.Salary
	}
	return e
}

// IsEmpty reports whether the patch carries no fields.
func (p Patch) IsEmpty() bool {
	return p.FullName == nil && p.Avatar == nil && p.Department == nil &&
		p.BirthDate == nil && p.Salary == nil
}
